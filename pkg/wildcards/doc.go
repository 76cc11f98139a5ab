// Package wildcards resolves wildcard references such as __colors__ against a
// directory of wildcard files. Text files hold one value per line; YAML and
// JSON files hold a list, or a mapping whose keys become nested wildcard
// names. The package also provides random and combinatorial generators that
// expand bare wildcard references for the template functions.
package wildcards
