/*
Package catalog holds the static menus of the shopping assistant.

The catalog is a two-level list: top-level items, one sub-type list per item and a
list of retailers. The default data is embedded (catalog.yaml); a replacement can be
loaded from any reader with Load. Menu prompts are Go templates interpolated with the
user's name.
*/
package catalog
