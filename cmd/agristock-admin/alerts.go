package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/agristock/agristock-api/internal/data"
	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/service"
)

const (
	defaultFireAlertTimeout = 20 * time.Second
	defaultFireAlertKind    = string(service.AlertKindLowStock)
	defaultFireAlertMessage = "Manual agristock-admin test alert to verify sink delivery."
)

type fireAlertOptions struct {
	SinkID      string
	SinkName    string
	Kind        string
	Message     string
	Item        string
	SkipDeliver bool
	Timeout     time.Duration
}

func runFireAlert(cmdCtx *commandContext, args []string) (err error) {
	opts, err := parseFireAlertFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    true,
		WantRedis: false,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInfra(db, nil); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close fire alert dependencies: %w", cerr))
		}
	}()

	sinkSvc := service.NewAlertSinkService(service.AlertSinkServiceOptions{
		Repo: data.NewAlertSinkRepo(db),
	}, cmdCtx.Logger)

	sink, err := lookupSink(ctx, sinkSvc, &opts)
	if err != nil {
		return err
	}

	payload, err := buildFireAlertPayload(&opts)
	if err != nil {
		return err
	}

	prep, err := sinkSvc.Prepare(sink, payload)
	if err != nil {
		return fmt.Errorf("prepare alert request: %w", err)
	}

	if summaryErr := printPreparedRequest(sink, prep); summaryErr != nil {
		return summaryErr
	}

	if opts.SkipDeliver {
		if printErr := writeln(os.Stdout, "Delivery skipped (--no-deliver). Prepared request printed only."); printErr != nil {
			return fmt.Errorf("print delivery status: %w", printErr)
		}
		return nil
	}

	client := &http.Client{Timeout: cmdCtx.Config.AlertScanner.DeliveryTimeout}
	if deliverErr := service.Deliver(ctx, client, prep); deliverErr != nil {
		return fmt.Errorf("deliver alert: %w", deliverErr)
	}

	if printErr := writef(os.Stdout, "Delivered test alert to sink %q (%s)\n", sink.Name, sink.URI); printErr != nil {
		return fmt.Errorf("print delivery summary: %w", printErr)
	}
	return nil
}

func lookupSink(
	ctx context.Context,
	svc *service.AlertSinkService,
	opts *fireAlertOptions,
) (*model.AlertSink, error) {
	if opts.SinkID != "" {
		sink, err := svc.GetByID(ctx, opts.SinkID)
		if err != nil {
			if errors.Is(err, data.ErrAlertSinkNotFound) {
				return nil, fmt.Errorf("sink id %q not found", opts.SinkID)
			}
			return nil, fmt.Errorf("get sink by id: %w", err)
		}
		return sink, nil
	}

	// Name lookup scans the (small) sink list; there is no by-name query.
	sinks, err := svc.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}
	for _, sink := range sinks {
		if strings.EqualFold(sink.Name, opts.SinkName) {
			return sink, nil
		}
	}
	return nil, fmt.Errorf("sink %q not found", opts.SinkName)
}

func buildFireAlertPayload(opts *fireAlertOptions) (json.RawMessage, error) {
	item, err := resolveJSONPayload(opts.Item, buildDefaultAlertItem())
	if err != nil {
		return nil, fmt.Errorf("item: %w", err)
	}

	alert := service.InventoryAlert{
		Kind:      service.AlertKind(opts.Kind),
		UserID:    "agristock-admin",
		Item:      item,
		Message:   opts.Message,
		Timestamp: time.Now().UTC(),
	}
	b, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("marshal alert payload: %w", err)
	}
	return b, nil
}

func buildDefaultAlertItem() json.RawMessage {
	payload := map[string]any{
		"manual_test": true,
		"origin":      "agristock-admin fire-alert",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	if user := currentUsername(); user != "" {
		payload["triggered_by"] = user
	}
	if host := localHostname(); host != "" {
		payload["host"] = host
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return json.RawMessage(`{"manual_test":true}`)
	}
	return b
}

func printPreparedRequest(sink *model.AlertSink, prep *service.PreparedRequest) error {
	if err := writef(os.Stdout, "Prepared request for sink %q (%s)\n", sink.Name, sink.ID); err != nil {
		return fmt.Errorf("print prepared request: %w", err)
	}
	if err := writef(os.Stdout, "  %s %s (expect %d, retry %d)\n", prep.Method, prep.URL, prep.OkStatus, prep.Retry); err != nil {
		return fmt.Errorf("print prepared request: %w", err)
	}
	for k, v := range prep.Headers {
		if err := writef(os.Stdout, "  Header %s: %s\n", k, v); err != nil {
			return fmt.Errorf("print prepared request: %w", err)
		}
	}
	if err := writef(os.Stdout, "Body:\n%s\n", indentJSON(prep.Body)); err != nil {
		return fmt.Errorf("print prepared request: %w", err)
	}
	return nil
}

func parseFireAlertFlags(args []string) (fireAlertOptions, error) {
	fs := flag.NewFlagSet("fire-alert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := fireAlertOptions{
		Kind:    defaultFireAlertKind,
		Message: defaultFireAlertMessage,
		Timeout: defaultFireAlertTimeout,
	}

	fs.StringVar(&opts.SinkID, "sink-id", "", "Target sink ID (mutually exclusive with --sink-name)")
	fs.StringVar(&opts.SinkName, "sink-name", "", "Target sink name (mutually exclusive with --sink-id)")
	fs.StringVar(&opts.Kind, "kind", opts.Kind, "Alert kind (low_stock|maintenance_due)")
	fs.StringVar(&opts.Message, "message", opts.Message, "Alert message")
	fs.StringVar(
		&opts.Item,
		"item",
		"",
		"Optional JSON payload for the alert item (defaults to a manual test payload)",
	)
	fs.BoolVar(
		&opts.SkipDeliver,
		"no-deliver",
		false,
		"Print the prepared request but skip posting it to the sink",
	)
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for database operations and delivery")

	if err := fs.Parse(args); err != nil {
		return fireAlertOptions{}, err
	}

	normalizeFireAlertOptions(&opts)
	if err := validateFireAlertOptions(&opts); err != nil {
		return fireAlertOptions{}, err
	}

	return opts, nil
}

func normalizeFireAlertOptions(opts *fireAlertOptions) {
	opts.SinkID = strings.TrimSpace(opts.SinkID)
	opts.SinkName = strings.TrimSpace(opts.SinkName)
	opts.Kind = strings.ToLower(strings.TrimSpace(opts.Kind))
	opts.Message = strings.TrimSpace(opts.Message)
	opts.Item = strings.TrimSpace(opts.Item)
}

func validateFireAlertOptions(opts *fireAlertOptions) error {
	if (opts.SinkID == "" && opts.SinkName == "") || (opts.SinkID != "" && opts.SinkName != "") {
		return errors.New("specify exactly one of --sink-id or --sink-name")
	}
	switch service.AlertKind(opts.Kind) {
	case service.AlertKindLowStock, service.AlertKindMaintenanceDue:
	default:
		return fmt.Errorf("invalid kind %q", opts.Kind)
	}
	if opts.Message == "" {
		return errors.New("message is required")
	}
	if opts.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func resolveJSONPayload(input string, fallback json.RawMessage) (json.RawMessage, error) {
	if input == "" {
		return fallback, nil
	}
	data := []byte(input)
	if !json.Valid(data) {
		return nil, errors.New("must be valid JSON")
	}
	// Make a copy to avoid retaining the backing array of flag args.
	out := make([]byte, len(data))
	copy(out, data)
	return json.RawMessage(out), nil
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func currentUsername() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func localHostname() string {
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	return host
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
