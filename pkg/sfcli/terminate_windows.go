// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import "os"

// Windows has no graceful termination signal for arbitrary console
// processes, so escalation collapses to an immediate kill.
func terminate(p *os.Process) error {
	return p.Kill()
}
