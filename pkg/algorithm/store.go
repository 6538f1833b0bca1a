package algorithm

import (
	"context"

	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/property"
)

// storeOutputs publishes the first storable property that reports stored.
// Later outputs are not published.
func (a *Algorithm) storeOutputs(ctx context.Context) error {
	for _, p := range a.props.Properties() {
		s, ok := p.(property.Storable)
		if !ok {
			continue
		}
		stored, err := s.Store(ctx)
		if err != nil {
			a.Logger().Error("error storing output workspace", log.String("property", p.Name()), log.Err(err))
			return &PersistenceError{Algorithm: a.Name(), Property: p.Name(), Err: err}
		}
		if stored {
			a.Logger().Debug("stored output workspace", log.String("property", p.Name()), log.String("workspace", p.Value()))
			return nil
		}
	}
	return nil
}
