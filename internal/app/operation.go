package app

const (
	OperationSuccess = "success"
	OperationError   = "error"
)

// Operation tracks the CLI command being run. It lives in memory with ID=0
// until the command first mutates the catalog; persisting it assigns the id
// that becomes the catalog's version.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
}

func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     OperationSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed when err is not nil, and returns err.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = OperationError
	}
	return err
}
