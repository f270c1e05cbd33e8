package grammar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()

	lang, err := reg.Get("bash")
	require.NoError(t, err)
	assert.NotNil(t, lang)

	// Second lookup returns the same grammar.
	again, err := reg.Get("bash")
	require.NoError(t, err)
	assert.Same(t, lang, again)
}

func TestRegistryGetUnknownLanguage(t *testing.T) {
	reg := NewRegistry()

	lang, err := reg.Get("cobol")
	assert.Error(t, err)
	assert.Nil(t, lang)

	// The failure is stable.
	_, err2 := reg.Get("cobol")
	assert.Equal(t, err.Error(), err2.Error())
}

func TestRegistryConcurrentGet(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lang, err := reg.Get("python")
			assert.NoError(t, err)
			assert.NotNil(t, lang)
		}()
	}
	wg.Wait()
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"bash", "python", "javascript", "typescript", "go"} {
		assert.True(t, Supported(name), name)
	}
	assert.False(t, Supported("markdown"))
	assert.Contains(t, Languages(), "bash")
}
