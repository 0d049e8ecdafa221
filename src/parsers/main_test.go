// backend/src/parsers/main_test.go
package parsers

import (
	"os"
	"testing"

	"github.com/openaudit/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}
