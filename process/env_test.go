package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitKV(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		wantKey string
		wantVal string
	}{
		{"simple", "FOO=bar", "FOO", "bar"},
		{"value has equals", "FOO=bar=baz", "FOO", "bar=baz"},
		{"no equals", "FOO", "FOO", ""},
		{"empty value", "FOO=", "FOO", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, v := splitKV(tc.in)
			assert.Equal(t, tc.wantKey, k)
			assert.Equal(t, tc.wantVal, v)
		})
	}
}

func TestMergeEnvLastValueWins(t *testing.T) {
	t.Parallel()

	got := mergeEnv(true, []string{"A=1", "B=2", "A=3"})
	m := map[string]string{}
	for _, kv := range got {
		k, v := splitKV(kv)
		m[k] = v
	}
	assert.Equal(t, "3", m["A"])
	assert.Equal(t, "2", m["B"])
	assert.Len(t, got, 2)
}

func TestMergeEnvIgnoresEmptyKey(t *testing.T) {
	t.Parallel()

	got := mergeEnv(true, []string{"=nokey", "A=1"})
	assert.Equal(t, []string{"A=1"}, got)
}

func TestMergeEnvClearEnvExcludesParent(t *testing.T) {
	t.Setenv("POPEN3_TEST_AMBIENT", "should-not-appear")
	got := mergeEnv(true, nil)
	for _, kv := range got {
		k, _ := splitKV(kv)
		assert.NotEqual(t, "POPEN3_TEST_AMBIENT", k)
	}
}

func TestMergeEnvInheritsParentByDefault(t *testing.T) {
	t.Setenv("POPEN3_TEST_AMBIENT", "present")
	got := mergeEnv(false, nil)
	found := false
	for _, kv := range got {
		k, v := splitKV(kv)
		if k == "POPEN3_TEST_AMBIENT" {
			found = true
			assert.Equal(t, "present", v)
		}
	}
	assert.True(t, found, "expected inherited parent env var to survive merge")
}
