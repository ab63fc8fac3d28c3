// Package mock provides test doubles for the ai package interfaces.
//
// Mocks default to harmless behavior (an empty but valid extraction
// document) and allow injection via function fields:
//
//	gen := mock.NewMockTextGenerator()
//	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
//	    return `{"entities":[{"name":"Niacinamide","type":"ingredient"}]}`, nil
//	}
package mock
