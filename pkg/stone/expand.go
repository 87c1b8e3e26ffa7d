package stone

import (
	"context"
	"fmt"

	"github.com/aretw0/blink/pkg/domain"
)

// Expand returns the ordered arrangement of stones after the given number of
// blinks. It materializes every stone, so it is only meant for small blink
// counts; it fails with domain.ErrTooManyStones once the arrangement would
// exceed limit stones. A limit <= 0 uses domain.DefaultExpandLimit.
func Expand(ctx context.Context, values []uint64, blinks uint32, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = domain.DefaultExpandLimit
	}
	if len(values) > limit {
		return nil, fmt.Errorf("%w: %d initial stones (limit %d)", domain.ErrTooManyStones, len(values), limit)
	}

	cur := append([]uint64(nil), values...)
	for i := uint32(0); i < blinks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := make([]uint64, 0, len(cur)+len(cur)/2)
		for _, v := range cur {
			o, err := ApplyChecked(v)
			if err != nil {
				return nil, err
			}
			next = append(next, o.Left)
			if o.Split {
				next = append(next, o.Right)
			}
			if len(next) > limit {
				return nil, fmt.Errorf("%w: more than %d stones after blink %d", domain.ErrTooManyStones, limit, i+1)
			}
		}
		cur = next
	}
	return cur, nil
}
