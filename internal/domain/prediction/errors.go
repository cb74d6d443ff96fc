package prediction

import "errors"

// ErrMatchFinished rejects a write against a match that already carries a
// final result. The check belongs to the repositories: a submit racing a
// result must not replace a settled row and clear its frozen points.
var ErrMatchFinished = errors.New("match already finished")
