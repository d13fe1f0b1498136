package store

import "os"

// writeFileAtomic writes data to a temporary sibling and renames it over the
// target. The rename is the only step allowed to replace the previous good
// state; any earlier failure leaves the original untouched.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
