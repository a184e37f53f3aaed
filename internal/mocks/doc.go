// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are testify mocks: configure them with On(...).Return(...) and
// check them with AssertExpectations. Service mocks use function fields so
// handler tests only stub the method they exercise:
//
//	stations := &mocks.MockStationService{
//	    GetFn: func(ctx context.Context, id int64) (*domain.Station, error) {
//	        return &domain.Station{ID: id, Name: "alpha", Line: "red line"}, nil
//	    },
//	}
package mocks
