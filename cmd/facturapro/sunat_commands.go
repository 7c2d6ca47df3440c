package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// ── Comprobantes y notas ─────────────────────────────────────────────────────

func runComprobantes(c *cli, args []string) error {
	const valid = "list"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	if sub != "list" {
		return unknownSub(sub, valid)
	}
	fs := newFlagSet(c, "comprobantes list")
	tipo := fs.String("tipo", "", "01 factura, 03 boleta (vacío = todos)")
	if err := parse(fs, rest); err != nil {
		return err
	}
	q := c.quotations()
	if err := q.LoadComprobantes(*tipo); err != nil {
		return reported(err)
	}
	w := c.table("ID\tNÚMERO\tTIPO\tFECHA\tESTADO\tANULADO")
	for _, comp := range q.Issued().Data() {
		anulado := "no"
		if comp.Anulado() {
			anulado = "sí"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", comp.ID, comp.Numero(), sunat.NombreComprobante(comp.TipoDoc), comp.FechaEmision, comp.Estado(), anulado)
	}
	return w.Flush()
}

func (c *cli) creditNotes() *billing.CreditNotes {
	return billing.NewCreditNotes(c.scope, billing.CreditNotesDeps{
		Notas:        api.NewNotaClient(c.client),
		Comprobantes: api.NewComprobanteClient(c.client),
		Toasts:       c.toasts,
		Logger:       c.log,
	})
}

func runNotas(c *cli, args []string) error {
	const valid = "list | emitir | motivos"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		uc := c.creditNotes()
		if err := uc.Load(); err != nil {
			return reported(err)
		}
		w := c.table("ID\tNÚMERO\tAFECTA A\tMOTIVO\tFECHA\tESTADO")
		for _, n := range uc.List().Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Numero(), n.DocAfectado(), n.CodMotivo, n.FechaEmision, n.Estado())
		}
		return w.Flush()

	case "emitir":
		fs := newFlagSet(c, "notas emitir")
		id := fs.Int64("comprobante", 0, "id del comprobante afectado")
		motivo := fs.String("motivo", sunat.MotivoAnulacion, "código del catálogo 09 (ver `notas motivos`)")
		if err := parse(fs, rest); err != nil {
			return err
		}
		out, err := c.creditNotes().EmitirCredito(*id, *motivo)
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(c.out, "%s\t%s\n", out.Nota.Numero(), out.Nota.Estado())
		return nil

	case "motivos":
		w := c.table("CÓDIGO\tMOTIVO")
		for _, code := range sortedKeys(sunat.MotivosNotaCredito) {
			fmt.Fprintf(w, "%s\t%s\n", code, sunat.MotivosNotaCredito[code])
		}
		return w.Flush()
	}
	return unknownSub(sub, valid)
}

// ── Envíos por lote ──────────────────────────────────────────────────────────

func (c *cli) batches() *billing.Batches {
	return billing.NewBatches(c.scope, api.NewResumenClient(c.client), c.toasts, c.log)
}

func runResumen(c *cli, args []string) error {
	fs := newFlagSet(c, "resumen")
	fecha := fs.String("fecha", time.Now().Format("2006-01-02"), "fecha de emisión de las boletas YYYY-MM-DD")
	if err := parse(fs, args); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", *fecha)
	if err != nil {
		return fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, *fecha)
	}
	ticket, err := c.batches().ResumenDiario(t)
	if err != nil {
		return reported(err)
	}
	fmt.Fprintln(c.out, ticket)
	return nil
}

func runBaja(c *cli, args []string) error {
	fs := newFlagSet(c, "baja")
	var raw stringList
	fs.Var(&raw, "item", "factura a dar de baja \"comprobante_id:motivo\" (repetible)")
	if err := parse(fs, args); err != nil {
		return err
	}
	items := make([]dto.BajaItem, 0, len(raw))
	for _, r := range raw {
		it, err := parseBajaItem(r)
		if err != nil {
			return err
		}
		items = append(items, it)
	}
	ticket, err := c.batches().ComunicacionBaja(items)
	if err != nil {
		return reported(err)
	}
	fmt.Fprintln(c.out, ticket)
	return nil
}

// ── Guías de remisión ────────────────────────────────────────────────────────

func runGuias(c *cli, args []string) error {
	const valid = "list | create"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	uc := billing.NewGuias(c.scope, api.NewGuiaClient(c.client), c.toasts, c.log)
	switch sub {
	case "list":
		if err := uc.Load(); err != nil {
			return reported(err)
		}
		w := c.table("ID\tNÚMERO\tFECHA\tDESTINATARIO\tESTADO")
		for _, g := range uc.List().Data() {
			estado := "Aceptada"
			if !g.Success {
				estado = "Rechazada"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", g.ID, g.Numero(), g.FechaEmision, g.Destinatario(), estado)
		}
		return w.Flush()

	case "create":
		fs := newFlagSet(c, "guias create")
		path := fs.String("archivo", "", "JSON con la guía (destinatario, traslado, direcciones y bienes)")
		if err := parse(fs, rest); err != nil {
			return err
		}
		in, err := readGuia(*path)
		if err != nil {
			return err
		}
		out, err := uc.Create(in)
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(c.out, "%s\t%t\n", out.Guia.Numero(), out.Accepted)
		return nil
	}
	return unknownSub(sub, valid)
}

func readGuia(path string) (dto.GuiaRemisionRequest, error) {
	var in dto.GuiaRemisionRequest
	if path == "" {
		return in, fmt.Errorf("%w: indique -archivo", domain.ErrInvalidInput)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("leer %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}
	return in, nil
}

// ── Administración ───────────────────────────────────────────────────────────

func runAdmin(c *cli, args []string) error {
	const valid = "stats | users | user | activar | desactivar | eliminar"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	uc := usecase.NewAdmin(c.scope, api.NewAdminClient(c.client), c.toasts, c.log)
	switch sub {
	case "stats":
		if err := uc.LoadStats(); err != nil {
			return reported(err)
		}
		st := uc.Stats().Data()
		fmt.Fprintf(c.out, "usuarios:            %d\n", st.TotalUsers)
		fmt.Fprintf(c.out, "activos:             %d\n", st.ActiveUsers)
		fmt.Fprintf(c.out, "cotizaciones:        %d\n", st.TotalCotizaciones)
		fmt.Fprintf(c.out, "nuevos (30 días):    %d\n", st.NewUsersLast30Days)
		return nil

	case "users":
		if err := uc.LoadUsers(); err != nil {
			return reported(err)
		}
		w := c.table("ID\tEMAIL\tALTA\tCOTIZACIONES\tESTADO")
		for _, u := range uc.Users().Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", u.ID, u.Email, u.CreationDate, u.CotizacionesCount, u.Estado())
		}
		return w.Flush()
	}

	switch sub {
	case "user", "activar", "desactivar", "eliminar":
	default:
		return unknownSub(sub, valid)
	}
	fs := newFlagSet(c, "admin "+sub)
	id := fs.Int64("id", 0, "id del usuario")
	reason := fs.String("motivo", "", "motivo de la desactivación")
	if err := parse(fs, rest); err != nil {
		return err
	}
	switch sub {
	case "user":
		d, err := uc.User(*id)
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(c.out, "%s\n", d.Profile.Email)
		if d.Profile.BusinessName != "" {
			fmt.Fprintf(c.out, "  empresa: %s\n", d.Profile.BusinessName)
		}
		w := c.table("ID\tNÚMERO\tMONEDA\tESTADO")
		for _, cot := range d.Cotizaciones {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cot.ID, cot.NumeroCotizacion, cot.Moneda, cot.Estado)
		}
		return w.Flush()
	case "activar":
		if _, err := uc.Activate(*id); err != nil {
			return reported(err)
		}
		return nil
	case "desactivar":
		if _, err := uc.Deactivate(*id, *reason); err != nil {
			return reported(err)
		}
		return nil
	case "eliminar":
		if err := uc.Delete(*id); err != nil {
			return reported(err)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
