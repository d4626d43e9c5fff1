package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain/report"
	"github.com/jhoicas/impresos/internal/infrastructure/fixture"
	"github.com/jhoicas/impresos/internal/infrastructure/pdf"
)

// renderOpts flags del comando render.
type renderOpts struct {
	output  string // fichero de salida; "-" = stdout; vacío = nombre del primer documento
	layout  string // inline | proforma | none; vacío = PDF_QUOTE_LAYOUT
	lang    string // vacío = PDF_LANG
	charset string // juego de caracteres del paquete
	model   string // con code: solo ese documento
	code    string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render <paquete.yaml>",
		Short: "Genera un PDF con los documentos de un paquete YAML/JSON, sin base de datos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", `fichero PDF de salida ("-" para stdout)`)
	f.StringVar(&opts.layout, "layout", "", "diseño de presupuestos: inline | proforma | none")
	f.StringVar(&opts.lang, "lang", "", "idioma de los textos (es, en)")
	f.StringVar(&opts.charset, "charset", "utf-8", "juego de caracteres del paquete (utf-8, latin1, windows-1252)")
	f.StringVar(&opts.model, "model", "", "tipo del único documento a imprimir (PresupuestoCliente...)")
	f.StringVar(&opts.code, "code", "", "código del único documento a imprimir")
	return cmd
}

func (c *CLI) runRender(path string, opts renderOpts) error {
	b, err := fixture.Load(path, fixture.WithCharset(opts.charset))
	if err != nil {
		return err
	}

	docs := b.DocumentData()
	if opts.model != "" || opts.code != "" {
		d, err := b.Find(opts.model, opts.code)
		if err != nil {
			return err
		}
		docs = []*export.DocumentData{d}
	}
	if len(docs) == 0 {
		return fmt.Errorf("%s: el paquete no contiene documentos", path)
	}

	renderer, err := pdf.NewRenderer(c.rendererOptions(opts.layout, opts.lang))
	if err != nil {
		return err
	}
	out, err := renderer.Render(docs...)
	if err != nil {
		return err
	}

	target := opts.output
	if target == "" {
		target = filepath.Join(filepath.Dir(path), export.FileName(docs[0].Document))
	}
	w, closeFn, err := c.createOutput(target)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		_ = closeFn()
		return fmt.Errorf("escribir %s: %w", target, err)
	}
	if err := closeFn(); err != nil {
		return err
	}

	c.log.Info().Str("file", target).Int("documents", len(docs)).Int("bytes", len(out)).
		Str("layout", renderer.Layout.Name()).Msg("PDF generado")
	return nil
}

// rendererOptions la configuración, con las flags por encima.
func (c *CLI) rendererOptions(layout, lang string) pdf.RendererOptions {
	if layout == "" {
		layout = c.cfg.PDF.QuoteLayout
	}
	if lang == "" {
		lang = c.cfg.PDF.Lang
	}
	return pdf.RendererOptions{
		Layout: layout,
		Lang:   lang,
		Numbers: report.NumberFormat{
			Decimals:           c.cfg.PDF.Decimals,
			DecimalSeparator:   c.cfg.PDF.DecimalSeparator,
			ThousandsSeparator: c.cfg.PDF.ThousandsSeparator,
		},
	}
}
