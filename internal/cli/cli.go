// Package cli implementa el comando impresos: renderizado de paquetes sin base de
// datos, importación a PostgreSQL y migraciones.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/impresos/internal/infrastructure/postgres"
	"github.com/jhoicas/impresos/pkg/config"
	"github.com/jhoicas/impresos/pkg/logger"
)

const appName = "impresos"

var (
	version = "dev"
	commit  = ""
)

// SetVersion fija la versión que muestra --version; main la recibe por -ldflags.
func SetVersion(v, c string) {
	version, commit = v, c
}

// CLI estado compartido por todos los comandos.
type CLI struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	cfg     *config.Config
	log     *logger.Logger

	// loadConfig se sustituye en tests.
	loadConfig func() (*config.Config, error)
}

// New crea la CLI. El PDF puede ir a stdout, así que los logs van siempre a stderr.
func New(stdout, stderr io.Writer) *CLI {
	return &CLI{stdout: stdout, stderr: stderr, loadConfig: config.Load}
}

// RootCommand comando raíz con todos los subcomandos registrados.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Genera los PDF de presupuestos, pedidos, albaranes y facturas",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			level := cfg.App.LogLevel
			if c.verbose {
				level = "debug"
			}
			c.cfg = cfg
			c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: c.stderr})
			return nil
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}} %s\n", appName, commit))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "logs de depuración")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.migrateCommand())
	return root
}

// openPool conecta a PostgreSQL con la configuración cargada.
func (c *CLI) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, c.cfg.DB, postgres.PoolOptions{MaxConns: 2})
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}

// createOutput abre el fichero de salida; "-" es stdout.
func (c *CLI) createOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return c.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("crear %s: %w", path, err)
	}
	return f, f.Close, nil
}
