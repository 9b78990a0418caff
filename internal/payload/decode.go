package payload

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/metdatasystem/chprotolist/pkg/protolist"
)

// Decode reads messages of type typ from r and passes each to fn. When
// delimited is set r holds length delimited frames, otherwise r holds a
// single message of at most protolist.MaxFrameSize bytes. Decoding stops at the first error returned by fn.
func Decode(r io.Reader, typ protolist.MessageType, delimited bool, fn func(protolist.Message) error) error {
	if !delimited {
		b, err := io.ReadAll(io.LimitReader(r, protolist.MaxFrameSize+1))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", typ.Name(), err)
		}
		if len(b) > protolist.MaxFrameSize {
			return fmt.Errorf("%w: %s exceeds %d bytes", protolist.ErrFrameTooLarge, typ.Name(), protolist.MaxFrameSize)
		}
		m := typ.New()
		if err := m.Unmarshal(b); err != nil {
			return err
		}
		return fn(m)
	}

	br := bufio.NewReader(r)
	for i := 0; ; i++ {
		m := typ.New()
		err := protolist.ReadDelimited(br, m)
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		if err := fn(m); err != nil {
			return err
		}
	}
}
