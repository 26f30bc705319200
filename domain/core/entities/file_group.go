package entities

import (
	"time"

	"github.com/ndlib/mellon-blueprints/domain/core/valueobjects"
	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// StorageSystem names where a file group's content physically lives.
type StorageSystem string

const (
	StorageSystemS3      StorageSystem = "S3"
	StorageSystemCurate  StorageSystem = "Curate"
	StorageSystemGoogle  StorageSystem = "Google"
	StorageSystemUniqueS StorageSystem = "Uniquesearch"
)

// FileGroup groups the files digitized from one physical object.
type FileGroup struct {
	ID            string        `json:"objectFileGroupId" validate:"required"`
	Label         string        `json:"label,omitempty" validate:"max=200"`
	StorageSystem StorageSystem `json:"storageSystem" validate:"required,oneof=S3 Curate Google Uniquesearch"`
	TypeOfData    string        `json:"typeOfData,omitempty"`
	Files         []File        `json:"files,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// File is a single digitized file within a group.
type File struct {
	Path      string `json:"path" validate:"required"`
	Label     string `json:"label,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	Sequence  int    `json:"sequence,omitempty"`
	SourceURI string `json:"sourceUri,omitempty"`
}

// NewFileGroup validates and constructs a FileGroup.
func NewFileGroup(id string, storage StorageSystem) (*FileGroup, error) {
	if valueobjects.NormalizeID(id) == "" {
		return nil, pkgerrors.NewValidationError("file group id cannot be empty")
	}
	switch storage {
	case StorageSystemS3, StorageSystemCurate, StorageSystemGoogle, StorageSystemUniqueS:
	default:
		return nil, pkgerrors.NewValidationError("unknown storage system")
	}

	now := time.Now().UTC()
	return &FileGroup{
		ID:            id,
		StorageSystem: storage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Key returns the file group's partition key.
func (g *FileGroup) Key() (valueobjects.RecordKey, error) {
	return valueobjects.NewRecordKey(valueobjects.RecordTypeFileGroup, g.ID)
}
