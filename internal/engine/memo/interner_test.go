package memo_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/memo"
)

func TestInterner_SameInstance(t *testing.T) {
	in := memo.NewInterner[domain.SingleExtensionKey]()
	id := domain.NewModuleExtensionID("//ext.bzl", "ext")

	a := in.Intern(domain.SingleExtensionKey{ID: id})
	b := in.Intern(domain.SingleExtensionKey{ID: domain.NewModuleExtensionID("//ext.bzl", "ext")})
	c := in.Intern(domain.SingleExtensionKey{ID: domain.NewModuleExtensionID("//other.bzl", "ext")})

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, in.Len())
}

func TestInterner_Concurrent(t *testing.T) {
	in := memo.NewInterner[domain.ActionKey]()
	key := domain.ActionKey{Mnemonic: "Copy", Digest: "abc"}

	const workers = 64
	results := make([]*domain.ActionKey, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			results[i] = in.Intern(key)
		})
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, in.Len())
}

func TestInterner_IndependentKeySpaces(t *testing.T) {
	full := memo.NewInterner[domain.SingleExtensionKey]()
	eval := memo.NewInterner[domain.SingleExtensionEvalKey]()
	id := domain.NewModuleExtensionID("//ext.bzl", "ext")

	fullKey := full.Intern(domain.SingleExtensionKey{ID: id})
	evalKey := eval.Intern(domain.SingleExtensionEvalKey{ID: id})

	assert.Equal(t, domain.FunctionSingleExtension, fullKey.FunctionName())
	assert.Equal(t, domain.FunctionSingleExtensionEval, evalKey.FunctionName())
	assert.Equal(t, 1, full.Len())
	assert.Equal(t, 1, eval.Len())
}
