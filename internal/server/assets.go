package server

import _ "embed"

// locationsAsset is the bundled department → cities dataset used for
// address autocompletion.
//
//go:embed assets/colombia-locations.json
var locationsAsset []byte
