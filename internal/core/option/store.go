// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import "context"

// Repository is the authoritative source of options.
//
// List returns options in the backend's order. Create returns the new option's
// id when the backend reports one, or "" when it does not.
type Repository interface {
	List(context context.Context, key ResourceKey) ([]*Option, error)
	Create(context context.Context, key ResourceKey, draft *Draft) (string, error)
	Delete(context context.Context, key ResourceKey, optionID string) error
}
