package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/vent-panel/internal/config"
)

// Repository stores numeric records.
type Repository interface {
	Load(ctx context.Context, id ID) (uint32, error)
	Save(ctx context.Context, id ID, value uint32) error
}

var (
	// ErrNotFound is returned when a record has never been saved.
	ErrNotFound = errors.New("record not found")
	// errBadValue is returned when a stored value is not a uint32.
	errBadValue = errors.New("stored value is not an unsigned 32-bit integer")
)

// FileRepository persists records to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the records file.
	path string
	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// NewFileRepository creates a repository backed by the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load returns the stored value of id.
func (r *FileRepository) Load(_ context.Context, id ID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return 0, err
	}

	field, ok := doc.GetFields()[id.String()]
	if !ok {
		return 0, ErrNotFound
	}

	n, ok := field.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue > math.MaxUint32 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("record %s: %w", id, errBadValue)
	}

	return uint32(n.NumberValue), nil
}

// Save stores value under id, keeping every other record.
func (r *FileRepository) Save(_ context.Context, id ID, value uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()

	switch {
	case errors.Is(err, ErrNotFound):
		doc = &structpb.Struct{}
	case err != nil:
		return err
	}

	if doc.Fields == nil {
		doc.Fields = make(map[string]*structpb.Value)
	}

	doc.Fields[id.String()] = structpb.NewNumberValue(float64(value))

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
	}

	data, err := marshalOptions.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write records file: %w", err)
	}

	return nil
}

// read loads the whole document. A missing file is ErrNotFound.
func (r *FileRepository) read() (*structpb.Struct, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read records file: %w", err)
	}

	var doc structpb.Struct
	if err = protojson.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode records file: %w", err)
	}

	return &doc, nil
}
