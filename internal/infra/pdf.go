package infra

// pdf.go renders the order receipt attached to the confirmation email:
// store header, order number and date, customer block, item table, total
// and, for bank transfers, the account details to pay into.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/go-pdf/fpdf"
)

// ComprobanteData is everything the receipt shows besides the order itself.
type ComprobanteData struct {
	Tienda      string
	EstadoLabel string
	Banco       *DatosBanco
}

type DatosBanco struct {
	Nombre  string
	Titular string
	CBU     string
	Alias   string
}

// GenerateComprobantePDF writes storagePath/pedido_<id>.pdf and returns its
// path. storagePath is created if needed.
func GenerateComprobantePDF(p *model.Pedido, data ComprobanteData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("pedido_%s.pdf", p.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, tr(data.Tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Comprobante de pedido", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, "Pedido "+p.ID, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, p.Fecha.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	if data.EstadoLabel != "" {
		pdf.CellFormat(contentW, 5, tr("Estado: "+data.EstadoLabel), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Cliente ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Cliente", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, tr(p.ClienteNombre+" "+p.ClienteApellido), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(p.ClienteEmail+"  |  Tel: "+p.ClienteTelefono), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(p.ClienteDireccion+"  |  DNI: "+p.ClienteDNI), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.55
	col2 := contentW * 0.15
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Precio", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range p.Items {
		nombre := []rune(item.NombreProducto)
		if len(nombre) > 40 {
			nombre = append(nombre[:39], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Precio.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+p.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, tr("Forma de pago: "+p.MetodoPago), "", 1, "L", false, 0, "")

	if data.Banco != nil {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Datos para la transferencia", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 4, tr("Banco: "+data.Banco.Nombre), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, tr("Titular: "+data.Banco.Titular), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, "CBU: "+data.Banco.CBU, "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 4, "Alias: "+data.Banco.Alias, "", 1, "L", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por tu compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
