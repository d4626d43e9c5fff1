package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/impresos/internal/application/bundle"
	"github.com/jhoicas/impresos/internal/infrastructure/fixture"
	"github.com/jhoicas/impresos/internal/infrastructure/postgres"
)

func (c *CLI) importCommand() *cobra.Command {
	var charset string
	var migrate bool
	cmd := &cobra.Command{
		Use:     "import <paquete.yaml>",
		Aliases: []string{"seed"},
		Short:   "Importa empresa, catálogos, documentos y usuarios de un paquete en PostgreSQL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := fixture.Load(args[0], fixture.WithCharset(charset))
			if err != nil {
				return err
			}

			pool, err := c.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			tx := postgres.NewTxRunner(pool)
			if migrate {
				if err := tx.Migrate(ctx); err != nil {
					return err
				}
			}
			uc := bundle.NewImportUseCase(tx, bundle.WithImportLogger(c.log.Component("import")))
			res, err := uc.Import(ctx, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "empresa %s: %d documentos, %d usuarios nuevos, %d usuarios existentes\n",
				res.CompanyID, res.Documents, res.Users, res.SkippedUsers)
			return nil
		},
	}
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "juego de caracteres del paquete (utf-8, latin1, windows-1252)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "aplicar migraciones antes de importar")
	return cmd
}

func (c *CLI) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea o actualiza el esquema de base de datos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := c.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewTxRunner(pool).Migrate(ctx); err != nil {
				return err
			}
			c.log.Info().Msg("esquema actualizado")
			return nil
		},
	}
}
