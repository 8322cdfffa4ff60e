// ABOUTME: Qdrant-backed vector store with owner-scoped payload filtering
// ABOUTME: Bootstraps a cosine-distance collection and maps records to points
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/atlascareer/atlas/internal/vectorstore"
)

// recordIDKey stores the caller's record ID in the payload. Qdrant point IDs
// must be UUIDs or integers, so the owner-prefixed record ID cannot be used
// directly; a deterministic UUID derived from it keeps upserts idempotent.
const recordIDKey = "record_id"

// Store implements vectorstore.Store against a Qdrant instance over grpc.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dimension   int
}

// NewStore connects to Qdrant and ensures the collection exists with the
// given dimension and cosine distance.
func NewStore(ctx context.Context, host string, port int, collection string, dimension int) (*Store, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", vectorstore.ErrUnavailable, addr, err)
	}

	s := &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		dimension:   dimension,
	}
	if err := s.ensureCollection(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: s.collection,
	})
	if err != nil {
		return fmt.Errorf("%w: collection check: %v", vectorstore.ErrUnavailable, err)
	}
	if exists.GetResult().GetExists() {
		return nil
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(s.dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", vectorstore.ErrUnavailable, err)
	}
	return nil
}

// Upsert writes records as points, stamping the owner into every payload.
func (s *Store) Upsert(ctx context.Context, ownerID string, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, rec := range records {
		if s.dimension > 0 && len(rec.Values) != s.dimension {
			return fmt.Errorf("%w: vector dimension %d, collection expects %d",
				vectorstore.ErrUnavailable, len(rec.Values), s.dimension)
		}

		payload := map[string]*pb.Value{
			recordIDKey:             {Kind: &pb.Value_StringValue{StringValue: rec.ID}},
			vectorstore.MetaOwnerID: {Kind: &pb.Value_StringValue{StringValue: ownerID}},
		}
		for k, v := range rec.Metadata {
			if k == vectorstore.MetaOwnerID || k == recordIDKey {
				continue
			}
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}

		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: pointUUID(rec.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: rec.Values}}},
			Payload: payload,
		}
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", vectorstore.ErrUnavailable, err)
	}
	return nil
}

// Query searches the owner's points by cosine similarity, descending.
func (s *Store) Query(ctx context.Context, ownerID string, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         ownerFilter(ownerID, ""),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", vectorstore.ErrUnavailable, err)
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, pt := range resp.Result {
		meta := make(map[string]string, len(pt.Payload))
		id := pt.Id.GetUuid()
		for k, v := range pt.Payload {
			if k == recordIDKey {
				id = v.GetStringValue()
				continue
			}
			meta[k] = v.GetStringValue()
		}
		// Belt and braces: the filter already scopes by owner.
		if meta[vectorstore.MetaOwnerID] != ownerID {
			continue
		}
		matches = append(matches, vectorstore.Match{ID: id, Score: pt.Score, Metadata: meta})
	}
	return matches, nil
}

// DeleteByOwner removes every point stored under ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	return s.deleteByFilter(ctx, ownerFilter(ownerID, ""))
}

// DeleteByDocument removes the owner's points for one document.
func (s *Store) DeleteByDocument(ctx context.Context, ownerID, documentID string) error {
	return s.deleteByFilter(ctx, ownerFilter(ownerID, documentID))
}

func (s *Store) deleteByFilter(ctx context.Context, filter *pb.Filter) error {
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: delete: %v", vectorstore.ErrUnavailable, err)
	}
	return nil
}

// Close releases the grpc connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func ownerFilter(ownerID, documentID string) *pb.Filter {
	must := []*pb.Condition{keywordCondition(vectorstore.MetaOwnerID, ownerID)}
	if documentID != "" {
		must = append(must, keywordCondition(vectorstore.MetaDocumentID, documentID))
	}
	return &pb.Filter{Must: must}
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   key,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: value}},
			},
		},
	}
}

// pointUUID maps an arbitrary record ID onto a stable UUID so that
// re-upserting the same record replaces the existing point.
func pointUUID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}

var _ vectorstore.Store = (*Store)(nil)
