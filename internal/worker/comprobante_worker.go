package worker

// comprobante_worker.go
// Processes receipt jobs from QueueComprobante: loads the order, renders the
// PDF receipt and queues the confirmation email. Guest orders that carry the
// placeholder address get the PDF but no email.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/rs/zerolog/log"
)

const emailInvitado = "invitado@ejemplo.com"

// ComprobanteJobPayload is the job envelope sent to QueueComprobante.
type ComprobanteJobPayload struct {
	PedidoID string `json:"pedido_id"`
}

// ConfigSource exposes the current store settings.
type ConfigSource interface {
	Get() model.Configuracion
}

// EmailEnqueuer queues the confirmation email. *Dispatcher satisfies it.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// PDFRenderer writes a receipt and returns its path.
type PDFRenderer func(p *model.Pedido, data infra.ComprobanteData, storagePath string) (string, error)

type ComprobanteWorker struct {
	pedidos        repository.PedidoRepository
	config         ConfigSource
	emails         EmailEnqueuer
	render         PDFRenderer
	pdfStoragePath string
	tienda         string
}

func NewComprobanteWorker(
	pedidos repository.PedidoRepository,
	config ConfigSource,
	emails EmailEnqueuer,
	pdfStoragePath string,
	tienda string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		pedidos:        pedidos,
		config:         config,
		emails:         emails,
		render:         infra.GenerateComprobantePDF,
		pdfStoragePath: pdfStoragePath,
		tienda:         tienda,
	}
}

// Process handles a single receipt job:
//  1. Fetch the order with its items (retried: the job may outrun replication)
//  2. Render the PDF receipt
//  3. Enqueue the confirmation email unless the buyer is an anonymous guest
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("comprobante_worker: invalid payload: %w", err)
	}
	if payload.PedidoID == "" {
		return fmt.Errorf("comprobante_worker: empty pedido_id")
	}

	var pedido *model.Pedido
	err := withRetry(ctx, maxJobAttempts, func(attempt int) error {
		p, err := w.pedidos.FindByID(ctx, payload.PedidoID)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("pedido_id", payload.PedidoID).
				Msg("comprobante_worker: order lookup failed")
			return err
		}
		pedido = p
		return nil
	})
	if err != nil {
		return fmt.Errorf("comprobante_worker: load %s: %w", payload.PedidoID, err)
	}

	cfg := w.config.Get()
	data := infra.ComprobanteData{
		Tienda:      w.tienda,
		EstadoLabel: cfg.ResolverEstado(pedido.Estado).Label,
	}
	if pedido.MetodoPago == model.MetodoTransferencia {
		data.Banco = &infra.DatosBanco{
			Nombre:  cfg.BancoNombre,
			Titular: cfg.BancoTitular,
			CBU:     cfg.BancoCBU,
			Alias:   cfg.BancoAlias,
		}
	}

	pdfPath, err := w.render(pedido, data, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("comprobante_worker: render %s: %w", pedido.ID, err)
	}
	log.Info().Str("pdf", pdfPath).Str("pedido_id", pedido.ID).Msg("comprobante_worker: PDF generated")

	to := strings.TrimSpace(pedido.ClienteEmail)
	if to == "" || strings.EqualFold(to, emailInvitado) {
		return nil
	}
	job := EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("%s: recibimos tu pedido %s", w.tienda, pedido.ID),
		Body:    cuerpoEmail(pedido, data),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		return fmt.Errorf("comprobante_worker: enqueue email for %s: %w", pedido.ID, err)
	}
	log.Info().Str("pedido_id", pedido.ID).Msg("comprobante_worker: email job enqueued")
	return nil
}

func cuerpoEmail(p *model.Pedido, data infra.ComprobanteData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\nGracias por tu compra. Tu número de pedido es %s.\n", p.ClienteNombre, p.ID)
	fmt.Fprintf(&b, "Total: $%s\n", p.Total.StringFixed(2))
	if data.Banco != nil {
		fmt.Fprintf(&b, "\nPara completar el pago transferí a:\nBanco: %s\nTitular: %s\nCBU: %s\nAlias: %s\n",
			data.Banco.Nombre, data.Banco.Titular, data.Banco.CBU, data.Banco.Alias)
	}
	b.WriteString("\nPodés seguir tu pedido con ese número en la tienda.\nAdjuntamos el comprobante.\n")
	return b.String()
}
