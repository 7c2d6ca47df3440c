package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/quotation"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/pdf"
	"github.com/jhoicas/facturapro/internal/infrastructure/sunatdoc"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// errReported el error ya se mostró como toast; no se vuelve a imprimir.
var errReported = errors.New("reportado")

func reported(err error) error {
	return fmt.Errorf("%w: %w", errReported, err)
}

func newFlagSet(c *cli, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func subcommand(args []string, valid string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("%w: falta subcomando (%s)", domain.ErrInvalidInput, valid)
	}
	return args[0], args[1:], nil
}

func unknownSub(sub, valid string) error {
	return fmt.Errorf("%w: subcomando desconocido %q (%s)", domain.ErrInvalidInput, sub, valid)
}

func (c *cli) table(header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

// ── Sesión ───────────────────────────────────────────────────────────────────

func runLogin(c *cli, args []string) error {
	fs := newFlagSet(c, "login")
	email := fs.String("email", "", "email de la cuenta")
	password := fs.String("password", os.Getenv("FACTURAPRO_PASSWORD"), "contraseña (o FACTURAPRO_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	res := c.auth.Login(c.scope.Context(), dto.Credentials{Username: *email, Password: *password})
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Fprintf(c.out, "Sesión iniciada como %s\n", c.auth.User().Email)
	return nil
}

func runLogout(c *cli, _ []string) error {
	c.auth.Logout(c.scope.Context())
	fmt.Fprintln(c.out, "Sesión cerrada")
	return nil
}

func runWhoami(c *cli, _ []string) error {
	if err := c.auth.CheckAuth(c.scope.Context()); err != nil {
		c.log.Debug().Err(err).Msg("verificación de sesión")
	}
	u := c.auth.User()
	if u == nil {
		fmt.Fprintln(c.out, "anónimo")
		return nil
	}
	fmt.Fprintf(c.out, "%s\n", u.Email)
	if u.BusinessName != "" {
		fmt.Fprintf(c.out, "  empresa: %s\n", u.BusinessName)
	}
	if u.BusinessRUC != "" {
		fmt.Fprintf(c.out, "  RUC:     %s\n", u.BusinessRUC)
	}
	if u.IsAdmin {
		fmt.Fprintln(c.out, "  rol:     administrador")
	}
	return nil
}

func runRegister(c *cli, args []string) error {
	fs := newFlagSet(c, "register")
	var in dto.RegisterRequest
	fs.StringVar(&in.Email, "email", "", "email de la cuenta")
	fs.StringVar(&in.Password, "password", os.Getenv("FACTURAPRO_PASSWORD"), "contraseña, mínimo 8 caracteres")
	fs.StringVar(&in.BusinessName, "razon", "", "razón social del emisor")
	fs.StringVar(&in.BusinessRUC, "ruc", "", "RUC del emisor")
	fs.StringVar(&in.BusinessAddress, "direccion", "", "dirección fiscal")
	fs.StringVar(&in.BusinessPhone, "telefono", "", "teléfono")
	if err := parse(fs, args); err != nil {
		return err
	}
	res := c.auth.Register(c.scope.Context(), in)
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Fprintln(c.out, "Cuenta creada. Inicie sesión con `facturapro login`.")
	return nil
}

// ── Catálogos ────────────────────────────────────────────────────────────────

func (c *cli) clientes() *usecase.Clientes {
	return usecase.NewClientes(c.scope, api.NewClienteClient(c.client), c.toasts, c.log)
}

func runClientes(c *cli, args []string) error {
	const valid = "list | create | delete"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		uc := c.clientes()
		if err := uc.Load(); err != nil {
			return reported(err)
		}
		w := c.table("ID\tTIPO\tNÚMERO\tRAZÓN SOCIAL\tEMAIL")
		for _, cl := range uc.List().Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", cl.ID, cl.TipoDocumento, cl.NumeroDocumento, cl.RazonSocial, cl.Email)
		}
		return w.Flush()

	case "create":
		fs := newFlagSet(c, "clientes create")
		var in dto.ClienteRequest
		fs.StringVar(&in.TipoDocumento, "tipo", sunat.TipoDocumentoRUC, "DNI o RUC")
		fs.StringVar(&in.NumeroDocumento, "numero", "", "número de documento")
		fs.StringVar(&in.RazonSocial, "razon", "", "razón social o nombre")
		fs.StringVar(&in.Direccion, "direccion", "", "dirección")
		fs.StringVar(&in.Email, "email", "", "email")
		fs.StringVar(&in.Telefono, "telefono", "", "teléfono")
		consultar := fs.Bool("consultar", false, "completar razón social y dirección desde el padrón")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if *consultar {
			lookup := usecase.NewDocumentoLookup(api.NewDocumentoClient(c.client), c.toasts, c.log)
			in = usecase.Fill(in, lookup.Lookup(c.scope.Context(), in.TipoDocumento, in.NumeroDocumento))
		}
		cl, err := c.clientes().Create(in)
		if err != nil {
			return reported(err)
		}
		fmt.Fprintf(c.out, "%d\t%s\n", cl.ID, cl.RazonSocial)
		return nil

	case "delete":
		fs := newFlagSet(c, "clientes delete")
		id := fs.Int64("id", 0, "id del cliente")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if err := c.clientes().Delete(*id); err != nil {
			return reported(err)
		}
		return nil
	}
	return unknownSub(sub, valid)
}

func runProductos(c *cli, args []string) error {
	const valid = "list"
	sub, _, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	if sub != "list" {
		return unknownSub(sub, valid)
	}
	uc := usecase.NewProductos(c.scope, api.NewProductoClient(c.client), c.toasts, c.log)
	if err := uc.Load(); err != nil {
		return reported(err)
	}
	w := c.table("ID\tCÓDIGO\tNOMBRE\tMONEDA\tPRECIO\tUNIDAD")
	for _, p := range uc.List().Data() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.CodigoInterno, p.Nombre, p.Moneda, pdf.FormatMoney(p.PrecioUnitario), p.UnidadMedida)
	}
	return w.Flush()
}

func runDocumento(c *cli, args []string) error {
	const valid = "lookup"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	if sub != "lookup" {
		return unknownSub(sub, valid)
	}
	fs := newFlagSet(c, "documento lookup")
	tipo := fs.String("tipo", sunat.TipoDocumentoRUC, "DNI o RUC")
	numero := fs.String("numero", "", "número de documento")
	if err := parse(fs, rest); err != nil {
		return err
	}
	lookup := usecase.NewDocumentoLookup(api.NewDocumentoClient(c.client), c.toasts, c.log)
	info := lookup.Lookup(c.scope.Context(), *tipo, *numero)
	if info == nil {
		return errReported
	}
	fmt.Fprintf(c.out, "nombre:    %s\n", info.Name())
	if info.Direccion != "" {
		fmt.Fprintf(c.out, "dirección: %s\n", info.Direccion)
	}
	if info.Estado != "" {
		fmt.Fprintf(c.out, "estado:    %s\n", info.Estado)
	}
	return nil
}

// ── Cotizaciones ─────────────────────────────────────────────────────────────

func (c *cli) quotations() *billing.Quotations {
	return billing.NewQuotations(c.scope, billing.Deps{
		Cotizaciones: api.NewCotizacionClient(c.client),
		Comprobantes: api.NewComprobanteClient(c.client),
		Preview:      pdf.NewPreviewGenerator(),
		Toasts:       c.toasts,
		Logger:       c.log,
	})
}

// draftFlags opciones comunes de preview y create.
type draftFlags struct {
	id        int64
	cliente   int64
	moneda    string
	vence     string
	items     stringList
	productos stringList
}

func (d *draftFlags) register(fs *flag.FlagSet) {
	fs.Int64Var(&d.cliente, "cliente", 0, "id del cliente")
	fs.StringVar(&d.moneda, "moneda", "", "PEN o USD (por defecto PEN)")
	fs.StringVar(&d.vence, "vence", "", "fecha de vencimiento YYYY-MM-DD")
	fs.Var(&d.items, "item", "línea libre \"descripcion;cantidad;precio\" (repetible)")
	fs.Var(&d.productos, "producto", "línea de catálogo \"producto_id:cantidad\" (repetible)")
}

// editor arma el borrador. Las líneas de catálogo copian nombre y precio del producto.
func (c *cli) editor(d draftFlags) (*billing.Editor, error) {
	ed := billing.NewEditor(d.moneda)
	if d.id > 0 {
		cot, err := c.quotations().Get(d.id)
		if err != nil {
			return nil, reported(err)
		}
		ed = billing.EditorFor(cot)
		if d.moneda != "" {
			ed.SetMoneda(d.moneda)
		}
	}
	if d.cliente > 0 {
		ed.SetCliente(d.cliente)
	}
	if d.vence != "" {
		ed.SetFechaVencimiento(d.vence)
	}

	for _, raw := range d.items {
		it, err := parseFreeItem(raw)
		if err != nil {
			return nil, err
		}
		i := ed.AddItem()
		if err := ed.UpdateItem(i, lineOf(it)); err != nil {
			return nil, err
		}
	}

	if len(d.productos) > 0 {
		uc := usecase.NewProductos(c.scope, api.NewProductoClient(c.client), c.toasts, c.log)
		if err := uc.Load(); err != nil {
			return nil, reported(err)
		}
		catalog := make(map[int64]entity.Producto)
		for _, p := range uc.List().Data() {
			catalog[p.ID] = p
		}
		for _, raw := range d.productos {
			it, err := parseProductItem(raw)
			if err != nil {
				return nil, err
			}
			p, ok := catalog[it.ProductoID]
			if !ok {
				return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, it.ProductoID)
			}
			i := ed.AddItem()
			if err := ed.PickProducto(i, p); err != nil {
				return nil, err
			}
			if err := ed.SetCantidad(i, it.Cantidad); err != nil {
				return nil, err
			}
		}
	}
	return ed, nil
}

func runCotizaciones(c *cli, args []string) error {
	const valid = "list | preview | create | facturar"
	sub, rest, err := subcommand(args, valid)
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		return listCotizaciones(c)
	case "preview":
		return previewCotizacion(c, rest)
	case "create":
		return createCotizacion(c, rest)
	case "facturar":
		return facturarCotizacion(c, rest)
	}
	return unknownSub(sub, valid)
}

func listCotizaciones(c *cli) error {
	q := c.quotations()
	if err := q.Load(); err != nil {
		return reported(err)
	}
	w := c.table("ID\tNÚMERO\tCLIENTE\tMONEDA\tTOTAL\tESTADO\tCOMPROBANTE")
	for _, cot := range q.List().Data() {
		total := "-"
		if cot.MontoTotal != nil {
			total = pdf.FormatMoney(*cot.MontoTotal)
		}
		comp := "-"
		if cot.Comprobante != nil {
			comp = cot.Comprobante.Numero() + " (" + cot.Comprobante.Estado() + ")"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", cot.ID, cot.NumeroCotizacion, cot.NombreCliente(), cot.Moneda, total, cot.Estado, comp)
	}
	return w.Flush()
}

func previewCotizacion(c *cli, args []string) error {
	fs := newFlagSet(c, "cotizaciones preview")
	var d draftFlags
	d.register(fs)
	out := fs.String("pdf", "", "ruta del PDF borrador a generar")
	if err := parse(fs, args); err != nil {
		return err
	}
	ed, err := c.editor(d)
	if err != nil {
		return err
	}

	draft, totals := ed.Draft(), ed.Preview()
	w := c.table("#\tDESCRIPCIÓN\tCANT.\tP. UNIT.\tTOTAL")
	for i, l := range draft.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, l.Descripcion, l.Cantidad.String(), pdf.FormatMoney(l.PrecioUnitario), pdf.FormatMoney(totals.Lines[i].Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Op. gravada: %s\nIGV (18%%):   %s\nTotal:       %s %s\n",
		pdf.FormatMoney(totals.Base), pdf.FormatMoney(totals.IGV), draft.Moneda, pdf.FormatMoney(totals.Total))

	if *out == "" {
		return nil
	}
	cliente, err := c.findCliente(draft.ClienteID)
	if err != nil {
		return err
	}
	doc, err := c.quotations().PreviewPDF(ed, c.auth.User(), cliente)
	if err != nil {
		return reported(err)
	}
	if err := os.WriteFile(*out, doc.Data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", *out, err)
	}
	fmt.Fprintln(c.out, *out)
	return nil
}

// findCliente busca el cliente del borrador; nil si no se indicó.
func (c *cli) findCliente(id int64) (*entity.Cliente, error) {
	if id == 0 {
		return nil, nil
	}
	uc := c.clientes()
	if err := uc.Load(); err != nil {
		return nil, reported(err)
	}
	for _, cl := range uc.List().Data() {
		if cl.ID == id {
			found := cl
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: cliente %d", domain.ErrNotFound, id)
}

func createCotizacion(c *cli, args []string) error {
	fs := newFlagSet(c, "cotizaciones create")
	var d draftFlags
	d.register(fs)
	fs.Int64Var(&d.id, "id", 0, "id de una cotización existente a editar")
	if err := parse(fs, args); err != nil {
		return err
	}
	ed, err := c.editor(d)
	if err != nil {
		return err
	}
	cot, err := c.quotations().Save(ed)
	if err != nil {
		return reported(err)
	}
	total := "-"
	if cot.MontoTotal != nil {
		total = pdf.FormatMoney(*cot.MontoTotal)
	}
	fmt.Fprintf(c.out, "%d\t%s\t%s %s\n", cot.ID, cot.NumeroCotizacion, cot.Moneda, total)
	return nil
}

func facturarCotizacion(c *cli, args []string) error {
	fs := newFlagSet(c, "cotizaciones facturar")
	id := fs.Int64("id", 0, "id de la cotización")
	tipo := fs.String("tipo", billing.TipoFactura, "factura o boleta")
	if err := parse(fs, args); err != nil {
		return err
	}
	out, err := c.quotations().Facturar(*id, *tipo)
	if err != nil {
		return reported(err)
	}
	fmt.Fprintf(c.out, "%s\t%s\n", out.Comprobante.Numero(), out.Comprobante.Estado())
	return nil
}

// ── Documentos ───────────────────────────────────────────────────────────────

func runDescargar(c *cli, args []string) error {
	fs := newFlagSet(c, "descargar")
	compID := fs.Int64("comprobante", 0, "id del comprobante")
	cotID := fs.Int64("cotizacion", 0, "id de la cotización (PDF)")
	kind := fs.String("tipo", string(dto.DocumentPDF), "pdf, xml o cdr (solo comprobantes)")
	dir := fs.String("dir", ".", "carpeta de destino")
	inspect := fs.Bool("inspeccionar", false, "resumir el XML o CDR descargado")
	if err := parse(fs, args); err != nil {
		return err
	}
	if (*compID == 0) == (*cotID == 0) {
		return fmt.Errorf("%w: indique -comprobante o -cotizacion", domain.ErrInvalidInput)
	}

	q := c.quotations()
	var doc *dto.Document
	if *cotID > 0 {
		cot, err := q.Get(*cotID)
		if err != nil {
			return reported(err)
		}
		if doc, err = q.DownloadQuotationPDF(cot); err != nil {
			return reported(err)
		}
	} else {
		k := dto.DocumentKind(*kind)
		if !k.Valid() {
			return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, *kind)
		}
		if err := q.LoadComprobantes(""); err != nil {
			return reported(err)
		}
		var comp *entity.Comprobante
		for _, it := range q.Issued().Data() {
			if it.ID == *compID {
				found := it
				comp = &found
				break
			}
		}
		if comp == nil {
			return fmt.Errorf("%w: comprobante %d", domain.ErrNotFound, *compID)
		}
		var err error
		if doc, err = q.Download(comp, k); err != nil {
			return reported(err)
		}
	}

	path := filepath.Join(*dir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	fmt.Fprintln(c.out, path)
	if *inspect {
		return c.inspect(doc.Filename, doc.Data)
	}
	return nil
}

func runInspeccionar(c *cli, args []string) error {
	fs := newFlagSet(c, "inspeccionar")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: uso: facturapro inspeccionar <archivo.xml|archivo.zip>", domain.ErrInvalidInput)
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leer %s: %w", path, err)
	}
	return c.inspect(path, data)
}

// inspect resume un XML UBL o un CDR según la extensión.
func (c *cli) inspect(name string, data []byte) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		cdr, err := sunatdoc.InspectCDR(data)
		if err != nil {
			return err
		}
		estado := "rechazado"
		switch {
		case cdr.Observed():
			estado = "aceptado con observaciones"
		case cdr.Accepted():
			estado = "aceptado"
		}
		fmt.Fprintf(c.out, "CDR %s\n  documento: %s\n  código:    %s (%s)\n  detalle:   %s\n",
			cdr.Filename, cdr.ReferenceID, cdr.ResponseCode, estado, cdr.Description)
		for _, n := range cdr.Notes {
			fmt.Fprintf(c.out, "  nota:      %s\n", n)
		}
		return nil
	case ".xml":
		s, err := sunatdoc.InspectXML(data)
		if err != nil {
			return err
		}
		firma := "sin firma"
		if s.Firmado() {
			firma = "DigestValue " + s.DigestValue
		}
		fmt.Fprintf(c.out, "%s %s (%s)\n  emisión:  %s\n  emisor:   %s %s\n  cliente:  %s %s\n  gravada:  %s\n  IGV:      %s\n  total:    %s %s\n  firma:    %s\n",
			sunat.NombreComprobante(s.TipoDoc), s.Numero(), s.Documento,
			s.FechaEmision,
			s.EmisorRUC, s.EmisorNombre,
			s.ClienteDocumento, s.ClienteNombre,
			pdf.FormatMoney(s.Base), pdf.FormatMoney(s.IGV), s.Moneda, pdf.FormatMoney(s.Total),
			firma)
		return nil
	}
	return fmt.Errorf("%w: se espera un .xml o un .zip: %s", domain.ErrInvalidInput, name)
}

func lineOf(it freeItem) quotation.Line {
	return quotation.Line{Descripcion: it.Descripcion, Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario}
}
