// Package runtime implements the shopping conversation as a fixed step table.
//
// The Engine is pure with respect to persistence: callers load a State, pass
// it to Navigate with the user's reply and store whatever comes back.
package runtime
