package orchestrator

import (
	"fmt"

	"github.com/Cyclone1070/agentteam/internal/selection"
)

const existingProjectNotice = "Note: this is an existing project. Read the current file structure and code " +
	"before changing anything, and do not blindly overwrite existing logic."

// Target of the write self-test.
const (
	SelfTestFile    = "test_write.txt"
	SelfTestContent = "Hello Gemini Test Successful"
)

// SelfTestGoal exercises one write, one check and one approval.
var SelfTestGoal = fmt.Sprintf(`This is a system test task:
1. Programmer: create a file named '%s' in the project root with the content '%s'.
2. QA: only check that '%s' exists. Ignore any build files. If it exists, reply 'QA_PASSED'.
3. Supervisor: if QA passed, reply 'APPROVED'.`, SelfTestFile, SelfTestContent, SelfTestFile)

// Goal returns the opening user message for a session.
func Goal(goal string, mode selection.Mode) string {
	if mode == selection.ExistingProject {
		return fmt.Sprintf("[Existing Project Task]: %s\n%s", goal, existingProjectNotice)
	}
	return goal
}
