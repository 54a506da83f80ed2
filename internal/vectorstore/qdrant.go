package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// QdrantStore implements Store against a Qdrant server over gRPC.
type QdrantStore struct {
	client *qdrant.Client
	logger *zap.Logger
}

// QdrantConfig holds connection settings for a Qdrant server.
type QdrantConfig struct {
	Host string
	Port int
}

// NewQdrantStore connects to Qdrant and verifies the server is reachable.
func NewQdrantStore(cfg QdrantConfig, logger *zap.Logger) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
		GrpcOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	logger.Info("connected to qdrant",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return &QdrantStore{client: client, logger: logger}, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, spec CollectionSpec) error {
	info, err := s.client.GetCollectionInfo(ctx, spec.Name)
	if err == nil {
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if int(size) != spec.Dimension {
			return fmt.Errorf("collection %q has dimension %d, want %d: %w",
				spec.Name, size, spec.Dimension, ErrCollectionMismatch)
		}
		return nil
	}
	if st, ok := status.FromError(err); !ok || st.Code() != codes.NotFound {
		return fmt.Errorf("get collection info: %w", err)
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", spec.Name, err)
	}

	s.logger.Info("created collection",
		zap.String("collection", spec.Name),
		zap.Int("dimension", spec.Dimension),
	)
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payloadToQdrant(p.Payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", wrapNotFound(err))
	}
	return nil
}

func (s *QdrantStore) Retrieve(ctx context.Context, collection string, ids []uint64) ([]Point, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDNum(id)
	}

	result, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant get: %w", wrapNotFound(err))
	}

	points := make([]Point, 0, len(result))
	for _, p := range result {
		points = append(points, Point{
			ID:      p.GetId().GetNum(),
			Payload: payloadFromQdrant(p.GetPayload()),
		})
	}
	return points, nil
}

func (s *QdrantStore) Search(ctx context.Context, collection string, q Query) ([]ScoredPoint, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	var filter *qdrant.Filter
	if q.ProjectScope != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key: "project_scope",
						Match: &qdrant.Match{
							MatchValue: &qdrant.Match_Keyword{Keyword: q.ProjectScope},
						},
					},
				},
			}},
		}
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(q.Vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         filter,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", wrapNotFound(err))
	}

	hits := make([]ScoredPoint, len(results))
	for i, r := range results {
		hits[i] = ScoredPoint{
			Point: Point{
				ID:      r.GetId().GetNum(),
				Payload: payloadFromQdrant(r.GetPayload()),
			},
			Score: r.GetScore(),
		}
	}
	return hits, nil
}

func (s *QdrantStore) DeleteCollection(ctx context.Context, collection string) error {
	if err := s.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("qdrant delete collection: %w", err)
	}
	return nil
}

func (s *QdrantStore) Stats(ctx context.Context, collection string) (Stats, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return Stats{}, fmt.Errorf("qdrant collection info: %w", wrapNotFound(err))
	}
	return Stats{PointCount: int(info.GetPointsCount())}, nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// wrapNotFound maps the gRPC NotFound status onto ErrCollectionNotFound so
// callers can match it without importing grpc packages.
func wrapNotFound(err error) error {
	if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
		return fmt.Errorf("%w: %v", ErrCollectionNotFound, err)
	}
	return err
}

func payloadToQdrant(p Payload) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		"file_path":     {Kind: &qdrant.Value_StringValue{StringValue: p.FilePath}},
		"start_line":    {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(p.StartLine)}},
		"end_line":      {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(p.EndLine)}},
		"kind":          {Kind: &qdrant.Value_StringValue{StringValue: p.Kind}},
		"language":      {Kind: &qdrant.Value_StringValue{StringValue: p.Language}},
		"content":       {Kind: &qdrant.Value_StringValue{StringValue: p.Content}},
		"project_scope": {Kind: &qdrant.Value_StringValue{StringValue: p.ProjectScope}},
		"content_hash":  {Kind: &qdrant.Value_StringValue{StringValue: p.ContentHash}},
	}
}

func payloadFromQdrant(m map[string]*qdrant.Value) Payload {
	return Payload{
		FilePath:     m["file_path"].GetStringValue(),
		StartLine:    intField(m, "start_line"),
		EndLine:      intField(m, "end_line"),
		Kind:         m["kind"].GetStringValue(),
		Language:     m["language"].GetStringValue(),
		Content:      m["content"].GetStringValue(),
		ProjectScope: m["project_scope"].GetStringValue(),
		ContentHash:  m["content_hash"].GetStringValue(),
	}
}

// intField tolerates integers stored as strings by older writers.
func intField(m map[string]*qdrant.Value, key string) int {
	v := m[key]
	if v == nil {
		return 0
	}
	if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
		n, _ := strconv.Atoi(s.StringValue)
		return n
	}
	return int(v.GetIntegerValue())
}
