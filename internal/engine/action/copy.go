package action

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// CopyMnemonic is the mnemonic of copy actions.
const CopyMnemonic = "Copy"

const copyActionGUID = "a1c2f3e4-7b9d-4c85-b0e1-5f3d2a6c8e19"

// CopyAction copies a file or a directory tree from one artifact to another.
type CopyAction struct {
	base
	targetType domain.TargetType
}

// NewCopyFile creates an action that copies a single file.
func NewCopyFile(owner domain.ActionOwner, input, output domain.Artifact, executable bool, progress string) (*CopyAction, error) {
	target := domain.TargetFile
	if executable {
		target = domain.TargetExecutable
	}
	return newCopy(owner, input, output, target, progress)
}

// NewCopyDirectory creates an action that copies a directory tree.
func NewCopyDirectory(owner domain.ActionOwner, input, output domain.Artifact, progress string) (*CopyAction, error) {
	return newCopy(owner, input, output, domain.TargetDirectory, progress)
}

func newCopy(
	owner domain.ActionOwner,
	input, output domain.Artifact,
	target domain.TargetType,
	progress string,
) (*CopyAction, error) {
	if overlaps(input.ExecPath.String(), output.ExecPath.String()) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidAction, "copy input and output overlap"),
			"input", input.String()), "output", output.String())
	}
	if progress == "" {
		progress = fmt.Sprintf("Copying %s to %s", input, output)
	}
	b, err := newBase(owner, CopyMnemonic, []domain.Artifact{input}, []domain.Artifact{output}, progress)
	if err != nil {
		return nil, err
	}
	return &CopyAction{base: b, targetType: target}, nil
}

// overlaps reports whether one exec path is the other or lies below it.
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

// TargetType reports what the action produces.
func (a *CopyAction) TargetType() domain.TargetType {
	return a.targetType
}

// AddToKey adds the copy GUID and target type.
func (a *CopyAction) AddToKey(fp *fingerprint.Fingerprint) {
	fp.AddString(copyActionGUID)
	fp.AddInt(int64(a.targetType))
}

// Execute copies the input to the output.
func (a *CopyAction) Execute(ctx context.Context, ectx *ExecutionContext) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	src, dst := ectx.Path(a.inputs[0]), ectx.Path(a.outputs[0])

	var err error
	switch a.targetType {
	case domain.TargetDirectory:
		err = copyTree(ctx, src, dst)
	case domain.TargetExecutable:
		err = copyFile(src, dst, domain.ExecutablePerm)
	default:
		err = copyFile(src, dst, domain.FilePerm)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewCancelledError(ctxErr)
		}
		return nil, domain.NewExecError(a.copyFailure(err), err)
	}

	return &Result{Outputs: a.Outputs()}, nil
}

// InputFailure reports an unreadable input the same way a failed copy is reported.
func (a *CopyAction) InputFailure(_ domain.Artifact, err error) domain.FailureDetail {
	return a.copyFailure(err)
}

func (a *CopyAction) copyFailure(err error) domain.FailureDetail {
	return domain.FailureDetail{
		Message:  fmt.Sprintf("failed to copy '%s' to '%s' due to I/O error: %v", a.inputs[0], a.outputs[0], err),
		Category: domain.CategoryCopyAction,
		Code:     domain.CodeIOError,
	}
}

// copyFile writes src to a temporary file next to dst and renames it into place.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // paths come from the action graph
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}

func copyTree(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := os.RemoveAll(dst); err != nil {
		return err
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, domain.DirPerm)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			fi, err := d.Info()
			if err != nil {
				return err
			}
			perm := os.FileMode(domain.FilePerm)
			if fi.Mode()&0o111 != 0 {
				perm = domain.ExecutablePerm
			}
			return copyFile(path, target, perm)
		}
	})
}
