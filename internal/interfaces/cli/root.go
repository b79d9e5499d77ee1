// Package cli árbol de comandos cobra de la herramienta de administración.
// Todas las operaciones pasan por la API REST (pkg/apiclient).
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/asseta-api/pkg/apiclient"
)

// cliApp estado compartido por los comandos.
type cliApp struct {
	cfg     Config
	jsonOut bool
}

// NewRootCmd construye el comando raíz con todos los subcomandos.
func NewRootCmd(cfg Config) *cobra.Command {
	a := &cliApp{cfg: cfg}
	root := &cobra.Command{
		Use:           "asseta",
		Short:         "Asseta admin CLI",
		Long:          "Command line interface for the Asseta asset management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.cfg.APIURL, "api-url", cfg.APIURL, "API base URL (ASSETA_API_URL)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print raw JSON instead of tables")

	for _, entity := range []string{"vendors", "products", "assets", "users"} {
		root.AddCommand(a.entityCmd(entity))
	}
	root.AddCommand(
		a.deleteCmd(),
		a.supportCmd(),
		a.binCmd(),
		a.notificationsCmd(),
		a.activityCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.registerCmd(),
		a.eventsCmd(),
	)
	return root
}

// Execute punto de entrada de cmd/cli.
func Execute() int {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

// describe convierte errores de la API en un mensaje legible.
func describe(err error) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := fmt.Sprintf("%s (%d)", apiErr.Message, apiErr.Status)
	if len(apiErr.Fields) > 0 {
		parts := make([]string, 0, len(apiErr.Fields))
		for k, v := range apiErr.Fields {
			parts = append(parts, k+": "+v)
		}
		msg += " [" + strings.Join(parts, ", ") + "]"
	}
	if apiErr.Status == 401 {
		msg += " - run 'asseta login' first"
	}
	return msg
}

// client cliente de la API con el token guardado (ASSETA_TOKEN tiene prioridad).
func (a *cliApp) client() *apiclient.Client {
	c := apiclient.New(a.cfg.APIURL, a.cfg.Timeout())
	token := a.cfg.Token
	if token == "" {
		token = readToken(a.cfg.TokenFile)
	}
	if token != "" {
		c = c.WithToken(token)
	}
	return c
}

func (a *cliApp) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
