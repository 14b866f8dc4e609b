// Package paths provides the on-disk layout of the WCAR data directory.
//
// # Directory Structure
//
//	<data>/
//	  ├── session.json             (current snapshot)
//	  ├── session.prev.json        (snapshot replaced by the last save)
//	  ├── session.json.corrupt.json (quarantined unreadable snapshot)
//	  ├── apps.yaml                (tracked-app policy)
//	  └── history/
//	      └── snap_<ULID>.json.zst (compressed archive per save)
//
// # Usage
//
//	layout := paths.New(dataDir)
//	if err := layout.Ensure(); err != nil {
//	    return err
//	}
//	data, err := os.ReadFile(layout.Session())
package paths
