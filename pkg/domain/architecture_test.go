package domain

import (
	"testing"

	"chemstate/testutil"
)

func TestDomainImportBoundaries(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"record types must not depend on internal packages")
	testutil.AssertNoTransitiveDependency(t, ".", testutil.InfraImportForbidden,
		"record types stay free of storage, cloud and logging libraries")
}
