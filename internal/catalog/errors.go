package catalog

import "errors"

// ErrCatalogUnavailable is returned when the catalog cannot be retrieved or parsed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")
