// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package jsonvalue models payloads from arbitrary third-party JSON APIs.

Widgets point at endpoints whose shape is only known at runtime, so payloads
are decoded into Value, a tagged union of the six JSON kinds plus an
"undefined" marker for absent data. Nothing outside this package handles raw
interface{} trees.

# Path Resolution

Fields are addressed with dotted paths:

	v, _ := jsonvalue.Parse([]byte(`{"market_data":{"current_price":{"usd":64000}}}`))
	price := jsonvalue.Resolve(v, "market_data.current_price.usd")

Resolve never fails. Missing keys, nulls and scalars in the middle of a path
all produce undefined.

# Discovery

Flatten lists every leaf of an object with its dotted path. The explorer
endpoint uses it to offer field paths to pick from.

# Ordering and Text

Compare defines the total order used by table sorting and Text defines the
string form used by search filtering and table cells.
*/
package jsonvalue
