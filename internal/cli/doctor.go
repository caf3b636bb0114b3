package cli

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/infrastructure/restapi"
	"github.com/99minutos/storefront/internal/infrastructure/storage"
)

const doctorTimeout = 3 * time.Second

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessReport struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (r readinessReport) healthy() bool { return r.Status == "ok" }

// checkReadiness pings the API and the session storage backend.
func (a *App) checkReadiness(ctx context.Context) readinessReport {
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			return
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	// --- API ---
	client := restapi.New(a.cfg.APIURL, nil, a.component("restapi"))
	record("api", client.Ping(ctx))

	// --- Session storage ---
	storageName := "storage:" + a.cfg.Storage.Backend
	backend, err := storage.Open(ctx, a.cfg)
	if err != nil {
		record(storageName, err)
	} else {
		record(storageName, backend.Ping(ctx))
		if err := backend.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close session storage")
		}
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}
	return readinessReport{Status: status, Dependencies: deps}
}

func newDoctorCommand(a *App) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to the API and session storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.checkReadiness(cmd.Context())

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				names := make([]string, 0, len(report.Dependencies))
				for name := range report.Dependencies {
					names = append(names, name)
				}
				sort.Strings(names)

				t := a.printer.Table("Dependency", "Status", "Error")
				for _, name := range names {
					d := report.Dependencies[name]
					t.AddRow(name, d.Status, d.Error)
				}
				if err := t.Render(); err != nil {
					return err
				}
			}

			if !report.healthy() {
				a.printer.Error("Status: %s", report.Status)
				return errReported
			}
			a.printer.Success("Status: %s", report.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
