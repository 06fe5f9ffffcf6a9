package resultapi

import (
	"testing"

	"chemstate/testutil"
)

func TestResultAPIBoundary(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(ip string) bool {
		return testutil.InternalImportForbidden(ip) || testutil.DomainImportForbidden(ip)
	}, "no direct imports of internal or record packages")
	testutil.AssertNoTransitiveDependency(t, ".", testutil.InfraImportForbidden,
		"value boundary stays dependency free")
}
