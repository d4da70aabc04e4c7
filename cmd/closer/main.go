// Comando closer: herramienta de operación para cerrar deals y termsheets a mano,
// correr un barrido, aplicar migraciones o extraer el PDF de un certificado.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/internal/bootstrap"
	"github.com/jhoicas/dealroom-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dealroom-api/pkg/config"
	"github.com/jhoicas/dealroom-api/pkg/logger"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "closer",
		Short:         "Cierre de deals y termsheets",
		Long:          `Ejecuta el flujo de cierre (activación, posiciones, comisiones, certificados, notificaciones) fuera del servidor HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log detallado en stderr")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "deal <deal-id>",
			Short: "Cierra un deal",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
					return printResult(c.Processor.CloseDeal(ctx, args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "termsheet <termsheet-id>",
			Short: "Cierra un termsheet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
					return printResult(c.Processor.CloseTermsheet(ctx, args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Cierra todo lo que ya alcanzó su fecha de cierre",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
					report := c.Sweeper.Sweep(ctx)
					if err := printJSON(report); err != nil {
						return err
					}
					for _, r := range append(append([]*dto.CloseResult{}, report.Deals...), report.Termsheets...) {
						if !r.Success {
							return fmt.Errorf("barrido con cierres fallidos")
						}
					}
					if len(report.Errors) > 0 {
						return fmt.Errorf("barrido con errores")
					}
					return nil
				})
			},
		},
		certificateCmd(),
		migrateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func certificateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "certificate <subscription-id>",
		Short: "Guarda en disco el PDF del certificado de una suscripción",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
				cert, err := c.Certificates.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("certificado de %s: %w", args[0], err)
				}
				path := out
				if path == "" {
					path = cert.SerialNumber + ".pdf"
				}
				if err := os.WriteFile(path, cert.PDF, 0o644); err != nil {
					return err
				}
				return printJSON(map[string]any{"serial_number": cert.SerialNumber, "file": path, "bytes": len(cert.PDF)})
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (por defecto <serial>.pdf)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones del esquema de cierres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()
			applied, err := postgres.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"applied": applied})
		},
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// withContainer carga configuración, arma dependencias y espera los certificados encolados antes de salir.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Out: os.Stderr})

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	runErr := fn(ctx, c)
	waitCertificates(c, 2*time.Minute)
	return runErr
}

func waitCertificates(c *bootstrap.Container, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.Certificates.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		fmt.Fprintln(os.Stderr, "aviso: quedaron certificados en generación")
	}
}

func printResult(res *dto.CloseResult) error {
	if err := printJSON(res); err != nil {
		return err
	}
	if res.Cause != nil {
		return res.Cause
	}
	if !res.Success {
		return fmt.Errorf("cierre con %d errores", len(res.Errors))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
