// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package units

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
)

// URLNameAttribute is the attribute carrying an explicit identifier, kept
// verbatim when present.
const URLNameAttribute = "olx-url_name"

// URLName returns a stable identifier for the unit. An explicit
// identifier attribute wins; otherwise the name is an md5 digest of the
// unit's position path, so repeated calls on an unchanged tree agree and
// any insertion, removal or reorder among ancestor siblings produces a
// different name. The digest is a file name, not a secret; collision
// resistance beyond that is not required.
func URLName(u Unit) string {
	if name := u.Attributes()[URLNameAttribute]; name != "" {
		return name
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(TreePath(u))))
}

// TreePath is the "_"-joined sequence of zero-based child indices from the
// root down to u. The root contributes nothing, so its path is "".
// E.g. "3_11_0_5".
func TreePath(u Unit) string {
	var indices []string
	for current := u; current.Parent() != nil; {
		parent := current.Parent()
		indices = append(indices, strconv.Itoa(parent.indexOf(current)))
		current = parent
	}
	// Collected leaf-first; reverse into root-to-node order.
	for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
		indices[i], indices[j] = indices[j], indices[i]
	}
	return strings.Join(indices, "_")
}
