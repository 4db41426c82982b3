package levels

import "context"

type Loader interface {
	LoadTuning(ctx context.Context, path string) (Tuning, error)
}
