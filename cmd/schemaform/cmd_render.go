package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform"
	"github.com/goliatone/go-schemaform/pkg/renderers/html"
)

func newRenderCmd(g *globalOptions) *cobra.Command {
	fo := &formOptions{}
	var (
		output     string
		templates  string
		themeName  string
		variant    string
		assetsBase string
		cssVars    []string
		manifests  []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form tree as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			s, err := buildSession(ctx, g, fo)
			if err != nil {
				return err
			}

			vars, err := parseCSSVars(cssVars)
			if err != nil {
				return err
			}
			opts := []html.Option{
				html.WithTemplatesDir(templates),
				html.WithCSSVars(vars),
				html.WithLogger(g.logger),
			}
			selector, err := themeSelector(ctx, g, fo, manifests, themeName, variant, assetsBase)
			if err != nil {
				return err
			}
			if selector != nil {
				opts = append(opts, html.WithThemeSelector(selector, themeName, variant))
			}

			renderer, err := html.New(opts...)
			if err != nil {
				return err
			}

			markup, err := renderer.Render(ctx, s.root)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(markup)
				return err
			}
			if err := os.WriteFile(output, markup, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}

	bindFormFlags(cmd, fo)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "Directory with template overrides")
	cmd.Flags().StringVar(&themeName, "theme", "", "Theme name")
	cmd.Flags().StringVar(&variant, "variant", "", "Theme variant")
	cmd.Flags().StringVar(&assetsBase, "assets-base", "", "Asset prefix of a theme given only by --theme")
	cmd.Flags().StringArrayVar(&manifests, "theme-manifest", nil, "go-theme manifest file (repeatable)")
	cmd.Flags().StringArrayVar(&cssVars, "css-var", nil, "CSS custom property (--name=value, repeatable)")
	return cmd
}

// themeSelector registers the --theme-manifest documents. Without manifests a
// --theme name becomes a bare manifest whose assets live under --assets-base.
func themeSelector(ctx context.Context, g *globalOptions, fo *formOptions, paths []string, name, variant, assetsBase string) (*html.ManifestSelector, error) {
	var manifests []*theme.Manifest
	if len(paths) > 0 {
		loader := newLoader(g, fo)
		for _, raw := range paths {
			src, err := sourceFlag("theme-manifest", raw)
			if err != nil {
				return nil, err
			}
			manifest, err := schemaform.LoadThemeManifest(ctx, loader, src)
			if err != nil {
				return nil, fmt.Errorf("load theme manifest: %w", err)
			}
			manifests = append(manifests, manifest)
		}
	} else if name != "" {
		manifest := &theme.Manifest{Name: name, Version: "1.0.0"}
		if assetsBase != "" {
			manifest.Assets = theme.Assets{
				Prefix: strings.TrimRight(assetsBase, "/"),
				Files:  map[string]string{html.StylesheetKey: html.StylesheetKey},
			}
		}
		if variant != "" {
			manifest.Variants = map[string]theme.Variant{variant: {}}
		}
		manifests = append(manifests, manifest)
	}
	if len(manifests) == 0 {
		return nil, nil
	}
	return html.NewManifestSelector(name, variant, manifests...)
}

func parseCSSVars(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --css-var %q: expected name=value", entry)
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}
