package router

import (
	"context"
	"errors"
	"testing"

	"github.com/v4ll3l1/Nimbus/internal/model"
	"github.com/v4ll3l1/Nimbus/internal/nerrors"
	"github.com/v4ll3l1/Nimbus/internal/validate"
)

func newTestMessage(msgType string, data any) *model.Message {
	return &model.Message{
		SpecVersion:   model.SpecVersion,
		ID:            "123",
		Source:        "https://x/api",
		Type:          msgType,
		CorrelationID: "123",
		Data:          data,
	}
}

// TestValidCommandRoute covers scenario S1: a registered handler for a
// schema-valid message resolves to that handler's result.
func TestValidCommandRoute(t *testing.T) {
	r := New("default")
	schema := validate.Object(map[string]*validate.Field{"aNumber": validate.Number()}, "aNumber")

	r.Register("test.command", func(ctx context.Context, msg *model.Message) (any, error) {
		data := msg.Data.(map[string]any)
		return map[string]any{
			"statusCode": 200,
			"headers":    map[string]string{"Content-Type": "application/json"},
			"data":       data,
		}, nil
	}, schema)

	result, err := r.Route(context.Background(), newTestMessage("test.command", map[string]any{"aNumber": float64(1)}))
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	out := result.(map[string]any)
	if out["statusCode"] != 200 {
		t.Fatalf("unexpected result: %#v", out)
	}
}

// TestUnknownTypeRouting covers scenario S2 and testable property 3.
func TestUnknownTypeRouting(t *testing.T) {
	r := New("default")
	_, err := r.Route(context.Background(), newTestMessage("UNKNOWN_EVENT", nil))

	var taxErr *nerrors.Error
	if !errors.As(err, &taxErr) || taxErr.Kind != nerrors.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

// TestMissingTypeRouting covers testable property 4.
func TestMissingTypeRouting(t *testing.T) {
	r := New("default")
	_, err := r.Route(context.Background(), newTestMessage("", nil))

	var taxErr *nerrors.Error
	if !errors.As(err, &taxErr) || taxErr.Kind != nerrors.KindInvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if taxErr.Message != "The provided input has no type attribute" {
		t.Fatalf("unexpected message: %s", taxErr.Message)
	}
}

// TestValidationFailure covers scenario S3 and testable property 5.
func TestValidationFailure(t *testing.T) {
	r := New("default")
	schema := validate.Object(map[string]*validate.Field{"aNumber": validate.Number()}, "aNumber")
	r.Register("test.event", func(ctx context.Context, msg *model.Message) (any, error) {
		return nil, nil
	}, schema)

	_, err := r.Route(context.Background(), newTestMessage("test.event", map[string]any{"aNumber": "123"}))

	var taxErr *nerrors.Error
	if !errors.As(err, &taxErr) || taxErr.Kind != nerrors.KindInvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if taxErr.Message != "The provided input is invalid" {
		t.Fatalf("unexpected message: %s", taxErr.Message)
	}
	issues, ok := taxErr.Details["issues"].([]nerrors.Issue)
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one issue, got %#v", taxErr.Details)
	}
	issue := issues[0]
	if issue.Code != "invalid_type" || issue.Expected != "number" || issue.Received != "string" {
		t.Fatalf("unexpected issue: %#v", issue)
	}
	if len(issue.Path) != 2 || issue.Path[0] != "data" || issue.Path[1] != "aNumber" {
		t.Fatalf("unexpected path: %v", issue.Path)
	}
	if issue.Message != "Expected number, received string" {
		t.Fatalf("unexpected message: %s", issue.Message)
	}
}

// TestHandlerErrorsPropagateUnchanged covers the router's error
// propagation policy: handler errors are never translated.
func TestHandlerErrorsPropagateUnchanged(t *testing.T) {
	r := New("default")
	domainErr := errors.New("insufficient funds")
	r.Register("test.command", func(ctx context.Context, msg *model.Message) (any, error) {
		return nil, domainErr
	}, nil)

	_, err := r.Route(context.Background(), newTestMessage("test.command", nil))
	if !errors.Is(err, domainErr) {
		t.Fatalf("expected the domain error to propagate unchanged, got %v", err)
	}
	var taxErr *nerrors.Error
	if errors.As(err, &taxErr) {
		t.Fatalf("expected handler error not to be wrapped in the taxonomy, got %v", taxErr)
	}
}

// TestRegisterReplacesExistingRegistration covers registry discipline: the
// last Register call for a type wins, with no warning (preserving the
// source's silent-replace behavior).
func TestRegisterReplacesExistingRegistration(t *testing.T) {
	r := New("default")
	r.Register("test.command", func(ctx context.Context, msg *model.Message) (any, error) {
		return "first", nil
	}, nil)
	r.Register("test.command", func(ctx context.Context, msg *model.Message) (any, error) {
		return "second", nil
	}, nil)

	result, err := r.Route(context.Background(), newTestMessage("test.command", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "second" {
		t.Fatalf("expected the later registration to win, got %v", result)
	}
}

func TestNoSchemaSkipsValidation(t *testing.T) {
	r := New("default")
	r.Register("test.command", func(ctx context.Context, msg *model.Message) (any, error) {
		return "ok", nil
	}, nil)

	result, err := r.Route(context.Background(), newTestMessage("test.command", "anything"))
	if err != nil || result != "ok" {
		t.Fatalf("expected success without a schema, got %v / %v", result, err)
	}
}
