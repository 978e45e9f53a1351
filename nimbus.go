package nimbus

import (
	eventbuspkg "github.com/v4ll3l1/Nimbus/eventbus"
	"github.com/v4ll3l1/Nimbus/internal/ids"
	jsoncodecpkg "github.com/v4ll3l1/Nimbus/internal/jsoncodec"
	loggingpkg "github.com/v4ll3l1/Nimbus/internal/logging"
	modelpkg "github.com/v4ll3l1/Nimbus/internal/model"
	nerrorspkg "github.com/v4ll3l1/Nimbus/internal/nerrors"
	telemetrypkg "github.com/v4ll3l1/Nimbus/internal/telemetry"
	validatepkg "github.com/v4ll3l1/Nimbus/internal/validate"
	registrypkg "github.com/v4ll3l1/Nimbus/registry"
	routerpkg "github.com/v4ll3l1/Nimbus/router"
)

type (
	// Message is the CloudEvents v1.0 envelope shared by commands, queries,
	// and events.
	Message = modelpkg.Message
	// MessageInput carries the fields a caller supplies to one of the
	// CreateCommand/CreateQuery/CreateEvent factories.
	MessageInput = modelpkg.Input

	Router       = routerpkg.Router
	RouterOption = routerpkg.Option
	Handler      = routerpkg.Handler

	EventBus        = eventbuspkg.Bus
	EventBusOption  = eventbuspkg.Option
	EventHandler    = eventbuspkg.Handler
	ErrorSink       = eventbuspkg.ErrorSink
	RetryPolicy     = eventbuspkg.RetryPolicy
	SubscribeOption = eventbuspkg.SubscribeOption

	Registry = registrypkg.Registry

	Validator        = validatepkg.Validator
	ObjectSchema     = validatepkg.ObjectSchema
	Field            = validatepkg.Field
	Issue            = validatepkg.Issue
	ValidationResult = validatepkg.Result

	Logger    = loggingpkg.Logger
	LogRecord = loggingpkg.Record

	Tracer   = telemetrypkg.Tracer
	Meter    = telemetrypkg.Meter
	Provider = telemetrypkg.Provider
	Span     = telemetrypkg.Span

	NimbusError = nerrorspkg.Error
	ErrorKind   = nerrorspkg.Kind
)

const (
	KindInvalidInput = nerrorspkg.KindInvalidInput
	KindUnauthorized = nerrorspkg.KindUnauthorized
	KindForbidden    = nerrorspkg.KindForbidden
	KindNotFound     = nerrorspkg.KindNotFound
	KindGeneric      = nerrorspkg.KindGeneric
)

const (
	SpecVersion       = modelpkg.SpecVersion
	MaxEventSizeBytes = eventbuspkg.MaxEventSizeBytes
)

var (
	// NewRouter constructs a named Message Router.
	NewRouter           = routerpkg.New
	WithRouterLogger    = routerpkg.WithLogger
	WithRouterTelemetry = routerpkg.WithTelemetry
	WithLogInput        = routerpkg.WithLogInput
	WithLogOutput       = routerpkg.WithLogOutput

	// NewEventBus constructs a named Event Bus.
	NewEventBus            = eventbuspkg.New
	WithDefaultRetryPolicy = eventbuspkg.WithDefaultRetryPolicy
	WithEventBusLogger     = eventbuspkg.WithLogger
	WithEventBusTelemetry  = eventbuspkg.WithTelemetry
	WithLogPublish         = eventbuspkg.WithLogPublish
	WithRetryPolicy        = eventbuspkg.WithRetryPolicy
	WithErrorSink          = eventbuspkg.WithErrorSink
	DefaultRetryPolicy     = eventbuspkg.DefaultRetryPolicy

	CreateCommand = modelpkg.CreateCommand
	CreateQuery   = modelpkg.CreateQuery
	CreateEvent   = modelpkg.CreateEvent

	Object       = validatepkg.Object
	String       = validatepkg.String
	Number       = validatepkg.Number
	Boolean      = validatepkg.Boolean
	ArrayOf      = validatepkg.ArrayOf
	NestedObject = validatepkg.NestedObject

	NewInvalidInput  = nerrorspkg.InvalidInput
	NewUnauthorized  = nerrorspkg.Unauthorized
	NewForbidden     = nerrorspkg.Forbidden
	NewNotFound      = nerrorspkg.NotFound
	NewGeneric       = nerrorspkg.Generic
	FromForeignError = nerrorspkg.FromForeignError

	DefaultTelemetry     = telemetrypkg.Default
	NewProvider          = telemetrypkg.NewProvider
	NewOTelTracer        = telemetrypkg.NewOTelTracer
	NewPrometheusMeter   = telemetrypkg.NewPrometheusMeter
	NewOTelMeter         = telemetrypkg.NewOTelMeter
	NewOTelMeterProvider = telemetrypkg.NewOTelMeterProvider

	NewZerologLogger = loggingpkg.NewZerologLogger
	NopLogger        = loggingpkg.Nop

	Marshal       = jsoncodecpkg.Marshal
	MarshalIndent = jsoncodecpkg.MarshalIndent
	Unmarshal     = jsoncodecpkg.Unmarshal
	Encode        = jsoncodecpkg.Encode
	Decode        = jsoncodecpkg.Decode

	NewID = ids.New

	DefaultRegistry = registrypkg.Default
	SetupRouter     = registrypkg.SetupRouter
	GetRouter       = registrypkg.GetRouter
	SetupEventBus   = registrypkg.SetupEventBus
	GetEventBus     = registrypkg.GetEventBus
)

// StructValidator is a generic wrapper re-exported with its type parameter
// intact; Go's const/var blocks can't alias a generic function without
// fixing T, so callers that need one for their own payload type go through
// this function instead of a package-level var.
func StructValidator[T any]() *validatepkg.StructValidator[T] {
	return validatepkg.NewStructValidator[T]()
}
