// backend/src/security/validation/main_test.go
package validation

import (
	"os"
	"testing"

	"github.com/openaudit/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}
