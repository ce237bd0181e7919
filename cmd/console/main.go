package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/config"
	"github.com/soulconnect/clinic-console/internal/page"
	"github.com/soulconnect/clinic-console/internal/server"
	"github.com/soulconnect/clinic-console/internal/toast"
	"github.com/soulconnect/clinic-console/pkg/logger"
	"github.com/soulconnect/clinic-console/pkg/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	log *logger.Logger
	met *metrics.Metrics
}

func (a *app) apiClient() *client.Client {
	return client.New(a.cfg.API.BaseURL, a.log,
		client.WithTimeout(time.Duration(a.cfg.API.TimeoutSeconds)*time.Second),
		client.WithRateLimit(a.cfg.API.RateLimit, a.cfg.API.RateBurst),
		client.WithMetrics(a.met),
	)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "clinic-console",
		Short:         "Administrative console for the clinic API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.NewLogger(nil)
			a.met = metrics.New("clinic_console", prometheus.DefaultRegisterer)
			return nil
		},
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPatientsCmd(a))
	root.AddCommand(newCitasCmd(a))
	return root
}

func newServeCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory stub of the clinic API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := server.NewStore()
			if seed {
				store.Seed()
			}
			return server.New(store, a.log).Run(a.cfg.Server.Port)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "preload demo patients and appointments")
	return cmd
}

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Inspect the patient registry",
	}

	var search string
	var pageNum int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, optionally filtered and paged",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			patients := client.NewPatients(a.apiClient())
			notifier := toast.NewNotifier(0)
			p := page.NewPatientsPage(patients, notifier, nil, a.cfg.UI.PageSize, a.log)
			p.Reload(ctx)
			if err := firstError(notifier); err != nil {
				return err
			}
			p.Search(search)
			p.GoToPage(pageNum)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tDOCUMENTO\tEPS")
			for _, patient := range p.Paged() {
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
					patient.ID, patient.FullName(), patient.IdentificationType, patient.IdentificationNumber, patient.EPS)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "página %d de %d (%d pacientes)\n", p.Page(), p.TotalPages(), len(p.Filtered()))
			return nil
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "filter by name or document")
	listCmd.Flags().IntVar(&pageNum, "page", 1, "page number")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one patient record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id: %w", err)
			}
			patient, err := client.NewPatients(a.apiClient()).Get(context.Background(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Nombre:        %s\n", patient.FullName())
			fmt.Fprintf(out, "Documento:     %s %s\n", patient.IdentificationType, patient.IdentificationNumber)
			fmt.Fprintf(out, "Nacimiento:    %s\n", patient.DateOfBirth)
			fmt.Fprintf(out, "EPS:           %s\n", patient.EPS)
			fmt.Fprintf(out, "Contacto:      %s / %s\n", patient.Email, patient.PhoneNumber)
			if bmi, ok := patient.BMI(); ok {
				fmt.Fprintf(out, "IMC:           %.2f\n", bmi)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func newCitasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citas",
		Short: "Inspect appointments",
	}

	var patientID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments for a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(patientID)
			if err != nil {
				return fmt.Errorf("invalid patient id: %w", err)
			}
			appointments, err := client.NewAppointments(a.apiClient()).ListByPatient(context.Background(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFECHA\tHORA\tESPECIALIDAD\tESTADO")
			for _, apt := range appointments {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", apt.ID, apt.Date, apt.Time, apt.Specialty, apt.Status)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&patientID, "patient", "", "patient id")
	listCmd.MarkFlagRequired("patient")

	cmd.AddCommand(listCmd)
	return cmd
}

// firstError surfaces a page's error toast as a command error so failures
// reach the exit code.
func firstError(n *toast.Notifier) error {
	for _, t := range n.Active() {
		if t.Kind == toast.KindError {
			return fmt.Errorf("%s", t.Message)
		}
	}
	return nil
}
