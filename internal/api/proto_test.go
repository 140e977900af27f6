package api

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtoContractMatchesServiceDesc(t *testing.T) {
	src, err := os.ReadFile(ServiceDesc.Metadata.(string))
	require.NoError(t, err)

	pkg := regexp.MustCompile(`(?m)^package\s+([\w.]+);`).FindSubmatch(src)
	require.NotNil(t, pkg)
	svc := regexp.MustCompile(`(?m)^service\s+(\w+)\s*\{`).FindSubmatch(src)
	require.NotNil(t, svc)
	assert.Equal(t, ServiceName, string(pkg[1])+"."+string(svc[1]))

	var rpcs []string
	re := regexp.MustCompile(`rpc\s+(\w+)\(google\.protobuf\.Struct\)\s+returns\s+\(google\.protobuf\.Struct\);`)
	for _, m := range re.FindAllSubmatch(src, -1) {
		rpcs = append(rpcs, string(m[1]))
	}

	var methods []string
	for _, m := range ServiceDesc.Methods {
		methods = append(methods, m.MethodName)
	}
	assert.Equal(t, methods, rpcs)
}
