package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"animalshelter/internal/model"
	"animalshelter/internal/repository"
	"animalshelter/internal/rescue"
)

// Argument errors are returned before the store is touched. Store failures are
// never returned; see AnimalService.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTypeArgument    = errors.New("argument must be a mapping")
)

const tracerName = "animalshelter/internal/service"

// AnimalService mediates all access to the animal collection.
//
// Malformed calls fail fast with ErrInvalidArgument or ErrTypeArgument. Store
// outages are logged and degrade to false, an empty slice, or 0, so a caller
// cannot tell "no matches" from "store error" by the result alone.
type AnimalService interface {
	// Create inserts one record. An empty record is ErrInvalidArgument.
	Create(ctx context.Context, rec model.Record) (bool, error)

	// Read returns every record matching q. An empty q matches all.
	Read(ctx context.Context, q model.Query) []model.Record

	// Update sets newValues on every record matching query and returns how many changed.
	// Both arguments must be mappings.
	Update(ctx context.Context, query, newValues any) (int64, error)

	// Delete removes every record matching query. query must be a mapping.
	Delete(ctx context.Context, query any) (int64, error)

	// FilterByRescueType reads the records suitable for a rescue label such as
	// "Water Rescue". Unrecognized labels return every record.
	FilterByRescueType(ctx context.Context, label any) ([]model.Record, error)
}

type animalService struct {
	repo    repository.AnimalRepository
	log     *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewAnimalService constructs an AnimalService. metrics may be nil.
func NewAnimalService(repo repository.AnimalRepository, log *slog.Logger, metrics *Metrics) AnimalService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &animalService{
		repo:    repo,
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

func (s *animalService) Create(ctx context.Context, rec model.Record) (bool, error) {
	if len(rec) == 0 {
		return false, fmt.Errorf("%w: nothing to save, record is empty", ErrInvalidArgument)
	}
	ctx, span := s.tracer.Start(ctx, "AnimalService.Create")
	defer span.End()

	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		s.storeFailed(ctx, span, opCreate, err)
		return false, nil
	}
	s.metrics.observe(opCreate, nil)
	s.log.DebugContext(ctx, "animal created", "id", fmt.Sprint(id))
	return true, nil
}

func (s *animalService) Read(ctx context.Context, q model.Query) []model.Record {
	ctx, span := s.tracer.Start(ctx, "AnimalService.Read")
	defer span.End()
	return s.read(ctx, span, q)
}

func (s *animalService) read(ctx context.Context, span trace.Span, q model.Query) []model.Record {
	if q == nil {
		q = model.Query{}
	}
	recs, err := s.repo.Find(ctx, q)
	if err != nil {
		s.storeFailed(ctx, span, opRead, err)
		return []model.Record{}
	}
	if recs == nil {
		recs = []model.Record{}
	}
	s.metrics.observe(opRead, nil)
	span.SetAttributes(attribute.Int("animals.count", len(recs)))
	return recs
}

func (s *animalService) Update(ctx context.Context, query, newValues any) (int64, error) {
	q, ok := asMapping(query)
	if !ok {
		return 0, fmt.Errorf("%w: query is %T", ErrTypeArgument, query)
	}
	values, ok := asMapping(newValues)
	if !ok {
		return 0, fmt.Errorf("%w: new values are %T", ErrTypeArgument, newValues)
	}
	ctx, span := s.tracer.Start(ctx, "AnimalService.Update")
	defer span.End()

	n, err := s.repo.UpdateMany(ctx, model.Query(q), model.Record(values))
	if err != nil {
		s.storeFailed(ctx, span, opUpdate, err)
		return 0, nil
	}
	s.metrics.observe(opUpdate, nil)
	span.SetAttributes(attribute.Int64("animals.modified", n))
	return n, nil
}

func (s *animalService) Delete(ctx context.Context, query any) (int64, error) {
	q, ok := asMapping(query)
	if !ok {
		return 0, fmt.Errorf("%w: query is %T", ErrTypeArgument, query)
	}
	ctx, span := s.tracer.Start(ctx, "AnimalService.Delete")
	defer span.End()

	n, err := s.repo.DeleteMany(ctx, model.Query(q))
	if err != nil {
		s.storeFailed(ctx, span, opDelete, err)
		return 0, nil
	}
	s.metrics.observe(opDelete, nil)
	span.SetAttributes(attribute.Int64("animals.deleted", n))
	return n, nil
}

func (s *animalService) FilterByRescueType(ctx context.Context, label any) ([]model.Record, error) {
	str, ok := label.(string)
	if !ok {
		return nil, fmt.Errorf("%w: rescue type must be a string, got %T", ErrInvalidArgument, label)
	}
	ctx, span := s.tracer.Start(ctx, "AnimalService.FilterByRescueType")
	defer span.End()

	t, q := rescue.QueryForLabel(str)
	span.SetAttributes(attribute.String("rescue.type", t.String()))
	if t == rescue.Invalid {
		// Unrecognized labels read the whole collection.
		s.log.DebugContext(ctx, "unrecognized rescue type, returning unfiltered records", "label", str)
	}
	return s.read(ctx, span, q), nil
}

func (s *animalService) storeFailed(ctx context.Context, span trace.Span, op string, err error) {
	s.metrics.observe(op, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.log.ErrorContext(ctx, "animal store operation failed", "operation", op, "error", err)
}

// asMapping accepts any map keyed by strings: model.Query, model.Record,
// map[string]any, bson.M and so on. A typed nil map counts as an empty mapping.
func asMapping(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
