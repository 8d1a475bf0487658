package lmdb

import "fmt"

// Module version constants, distinct from Version (the on-disk file
// format version checked by ReadMeta).
const (
	ModuleMajor = 0
	ModuleMinor = 1
	ModulePatch = 0
)

// ModuleVersion returns this package's version string.
func ModuleVersion() string {
	return fmt.Sprintf("%d.%d.%d", ModuleMajor, ModuleMinor, ModulePatch)
}
