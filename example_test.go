package roomtag_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/roomtag"
	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/dialog"
)

// Example_basic names a room of the demo colony and reads the label back through the
// location text a host would show.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "roomtag-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := roomtag.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.Seed(ctx, "colony"); err != nil {
		log.Fatal(err)
	}

	dining := core.Cell{X: 7, Z: 4}
	_, err = svc.Label(ctx, "colony", dining, func(s *dialog.Session) error {
		s.SetName("Kitchen")
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	in, err := svc.Inspect(ctx, "colony", dining, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(in.Text)
	// Output:
	// In the Kitchen.
}
