package database

import "github.com/argus-network/argus/types"

type MockDb struct {
	InitFunc             func() error
	CloseFunc            func() error
	SaveOutcomeFunc      func(tx *types.TrackedTransaction)
	LoadOutcomeFunc      func(chain, reference string) (*types.TrackedTransaction, error)
	SaveErrorFunc        func(ce *types.ClassifiedError)
	LoadRecentErrorsFunc func(limit int) ([]*types.ClassifiedError, error)
}

func (mock *MockDb) Init() error {
	if mock.InitFunc != nil {
		return mock.InitFunc()
	}

	return nil
}

func (mock *MockDb) Close() error {
	if mock.CloseFunc != nil {
		return mock.CloseFunc()
	}

	return nil
}

func (mock *MockDb) SaveOutcome(tx *types.TrackedTransaction) {
	if mock.SaveOutcomeFunc != nil {
		mock.SaveOutcomeFunc(tx)
	}
}

func (mock *MockDb) LoadOutcome(chain, reference string) (*types.TrackedTransaction, error) {
	if mock.LoadOutcomeFunc != nil {
		return mock.LoadOutcomeFunc(chain, reference)
	}

	return nil, nil
}

func (mock *MockDb) SaveError(ce *types.ClassifiedError) {
	if mock.SaveErrorFunc != nil {
		mock.SaveErrorFunc(ce)
	}
}

func (mock *MockDb) LoadRecentErrors(limit int) ([]*types.ClassifiedError, error) {
	if mock.LoadRecentErrorsFunc != nil {
		return mock.LoadRecentErrorsFunc(limit)
	}

	return nil, nil
}
