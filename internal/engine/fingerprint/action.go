package fingerprint

import "go.trai.ch/kiln/internal/core/domain"

// Keyed is an action description that can be fingerprinted.
type Keyed interface {
	Mnemonic() string
	Owner() domain.ActionOwner
	Inputs() []domain.Artifact
	Outputs() []domain.Artifact
	// AddToKey adds the fields specific to the action's kind.
	AddToKey(fp *Fingerprint)
}

// InputDigest is the content digest of one input.
type InputDigest struct {
	Path   string
	Digest []byte
}

// ForAction computes the cache key of an action.
// Input digests are optional; when nil, the key covers the description only.
func ForAction(a Keyed, inputs []InputDigest) Digest {
	fp := New()
	fp.AddString(actionKeyVersion)
	fp.AddString(a.Mnemonic())

	owner := a.Owner()
	fp.AddString(owner.Label.String())
	fp.AddString(owner.Configuration)

	fp.AddArtifacts(a.Inputs())
	fp.AddArtifacts(a.Outputs())
	a.AddToKey(fp)

	fp.AddInt(int64(len(inputs)))
	for _, in := range inputs {
		fp.AddString(in.Path)
		fp.AddBytes(in.Digest)
	}

	return fp.Digest()
}
