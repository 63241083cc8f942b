package audit

import (
	"github.com/rzbill/raccoon/internal/archive"
)

// Record chunk version.
const (
	recordMajor = 1
	recordMinor = 0
)

// Record is one save event. The zero value is an empty record ready for Read.
type Record struct {
	MachineName string
	UserName    string
	Timestamp   string
}

// NewRecord captures machine, user and time from env.
func NewRecord(env Environment) *Record {
	return &Record{
		MachineName: env.HostName(),
		UserName:    userName(env),
		Timestamp:   env.Now().Format(TimestampLayout),
	}
}

// String renders "timestamp,machine,user". Commas inside fields are not escaped.
func (r *Record) String() string {
	return r.Timestamp + "," + r.MachineName + "," + r.UserName
}

// IsEmpty reports whether no field has been populated.
func (r *Record) IsEmpty() bool {
	return r.MachineName == "" && r.UserName == "" && r.Timestamp == ""
}

// Write serialises the record and returns the writer's error state.
func (r *Record) Write(w *archive.Writer) error {
	w.WriteChunkVersion(recordMajor, recordMinor)
	w.WriteCompressedBuffer([]byte(r.MachineName))
	w.WriteCompressedBuffer([]byte(r.UserName))
	w.WriteCompressedBuffer([]byte(r.Timestamp))
	return w.Err()
}

// Read populates the record and returns the reader's error state. A chunk
// with an unsupported major version leaves the record empty and is not an
// error.
func (r *Record) Read(rd *archive.Reader) error {
	v, err := rd.ReadChunkVersion()
	if err != nil {
		return err
	}
	if !v.Accepts(recordMajor, recordMinor) {
		return nil
	}
	machine, _ := rd.ReadCompressedBuffer()
	user, _ := rd.ReadCompressedBuffer()
	ts, _ := rd.ReadCompressedBuffer()
	if err := rd.Err(); err != nil {
		return err
	}
	r.MachineName = string(machine)
	r.UserName = string(user)
	r.Timestamp = string(ts)
	return nil
}
