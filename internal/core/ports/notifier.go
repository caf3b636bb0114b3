package ports

import "github.com/99minutos/storefront/internal/core/domain"

// Notifier receives user-visible notices (success and failure banners).
type Notifier interface {
	Notify(n domain.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(domain.Notice)

func (f NotifierFunc) Notify(n domain.Notice) { f(n) }
