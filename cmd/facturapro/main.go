// Command facturapro es el cliente de línea de comandos de FacturaPro: sesión,
// catálogos, cotizaciones, emisión de comprobantes, notas de crédito, guías de
// remisión y administración contra el backend REST.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jhoicas/facturapro/internal/application/auth"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
	"github.com/jhoicas/facturapro/pkg/config"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// cli dependencias compartidas por los subcomandos. El scope dura lo que dura el comando.
type cli struct {
	out    io.Writer
	errOut io.Writer
	log    *logger.Logger
	client *api.Client
	auth   *auth.Store
	toasts *toast.Service
	scope  *remote.Scope
}

type command struct {
	name    string
	summary string
	// needsSession exige un CheckAuth exitoso antes de ejecutar.
	needsSession bool
	run          func(c *cli, args []string) error
}

var commands = map[string]command{
	"login":        {name: "login", summary: "iniciar sesión", run: runLogin},
	"logout":       {name: "logout", summary: "cerrar sesión", run: runLogout},
	"whoami":       {name: "whoami", summary: "usuario de la sesión actual", run: runWhoami},
	"register":     {name: "register", summary: "crear una cuenta", run: runRegister},
	"clientes":     {name: "clientes", summary: "list | create | delete", needsSession: true, run: runClientes},
	"productos":    {name: "productos", summary: "list", needsSession: true, run: runProductos},
	"cotizaciones": {name: "cotizaciones", summary: "list | preview | create | facturar", needsSession: true, run: runCotizaciones},
	"documento":    {name: "documento", summary: "lookup (padrón RUC/DNI)", needsSession: true, run: runDocumento},
	"comprobantes": {name: "comprobantes", summary: "list", needsSession: true, run: runComprobantes},
	"notas":        {name: "notas", summary: "list | emitir | motivos (notas de crédito)", needsSession: true, run: runNotas},
	"resumen":      {name: "resumen", summary: "resumen diario de boletas", needsSession: true, run: runResumen},
	"baja":         {name: "baja", summary: "comunicación de baja de facturas", needsSession: true, run: runBaja},
	"guias":        {name: "guias", summary: "list | create (guías de remisión)", needsSession: true, run: runGuias},
	"admin":        {name: "admin", summary: "stats | users | user | activar | desactivar | eliminar", needsSession: true, run: runAdmin},
	"descargar":    {name: "descargar", summary: "PDF/XML/CDR de un comprobante o PDF de una cotización", needsSession: true, run: runDescargar},
	"inspeccionar": {name: "inspeccionar", summary: "resumen de un XML UBL o de un CDR (zip)", run: runInspeccionar},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "comando desconocido %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "configuración:", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(ctx, cfg, log, stdout, stderr)
	defer c.close()

	if cmd.needsSession {
		if err := c.auth.CheckAuth(ctx); err != nil {
			log.Debug().Err(err).Msg("verificación de sesión")
		}
		if !c.auth.IsAuthenticated() {
			fmt.Fprintln(stderr, "no hay sesión iniciada; ejecute `facturapro login`")
			return 1
		}
	}

	if err := cmd.run(c, args[1:]); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "error:", err)
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return 2
		}
		return 1
	}
	return 0
}

func newCLI(ctx context.Context, cfg *config.Config, log *logger.Logger, stdout, stderr io.Writer) *cli {
	tokens := tokenstore.NewFile(cfg.Session.TokenPath)
	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Tokens:  tokens,
		Logger:  log,
	})
	authClient := api.NewAuthClient(client)
	store := auth.NewStore(authClient, authClient, tokens, auth.WithLogger(log))
	client.OnUnauthorized(store.Expire)

	return &cli{
		out:    stdout,
		errOut: stderr,
		log:    log,
		client: client,
		auth:   store,
		toasts: toast.New(toast.WithLogger(log), toast.WithListener(printToast(stderr))),
		scope:  remote.NewScope(ctx),
	}
}

func (c *cli) close() {
	c.scope.Close()
	c.toasts.Close()
}

// printToast imprime cada notificación en cuanto se muestra.
func printToast(w io.Writer) func(entity.Toast) {
	return func(t entity.Toast) {
		fmt.Fprintf(w, "%s %s\n", toastPrefix(t.Type), t.Message)
	}
}

func toastPrefix(t entity.ToastType) string {
	switch t {
	case entity.ToastSuccess:
		return "[ok]"
	case entity.ToastError:
		return "[error]"
	case entity.ToastWarning:
		return "[aviso]"
	default:
		return "[info]"
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "uso: facturapro <comando> [opciones]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-13s %s\n", name, commands[name].summary)
	}
}
