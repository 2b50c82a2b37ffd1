package resource

import (
	"net/http"

	"github.com/kroksys/restbatch/spec"
)

// BatchCreateOutcome is what a batch create resource method returns. It is
// implemented only by *BatchCreateResult and *BatchCreateKVResult.
type BatchCreateOutcome interface {
	batchCreateOutcome()
}

// CreateResponse is the outcome of one create in a batch that reports ids only.
type CreateResponse struct {
	ID     interface{}
	Status int
	Error  *ServiceError
}

// CreateKVResponse is the outcome of one create in a batch that reports the
// created entity alongside its id.
type CreateKVResponse struct {
	ID     interface{}
	Entity spec.DataMap
	Status int
	Error  *ServiceError
}

// BatchCreateResult reports ids only. A nil Results slice is a programming
// error; use an empty slice for an empty batch.
type BatchCreateResult struct {
	Results []*CreateResponse
}

// BatchCreateKVResult reports ids with the created entities.
type BatchCreateKVResult struct {
	Results []*CreateKVResponse
}

func (*BatchCreateResult) batchCreateOutcome()   {}
func (*BatchCreateKVResult) batchCreateOutcome() {}

// NewCreated returns a 201 outcome for id.
func NewCreated(id interface{}) *CreateResponse {
	return &CreateResponse{ID: id, Status: http.StatusCreated}
}

// NewCreateError returns a failed outcome. The status is taken from err.
func NewCreateError(id interface{}, err *ServiceError) *CreateResponse {
	return &CreateResponse{ID: id, Status: err.Status, Error: err}
}

// NewCreatedKV returns a 201 outcome for id with the created entity.
func NewCreatedKV(id interface{}, entity spec.DataMap) *CreateKVResponse {
	return &CreateKVResponse{ID: id, Entity: entity, Status: http.StatusCreated}
}

// NewCreateKVError returns a failed outcome for the entity variant.
func NewCreateKVError(id interface{}, err *ServiceError) *CreateKVResponse {
	return &CreateKVResponse{ID: id, Status: err.Status, Error: err}
}
