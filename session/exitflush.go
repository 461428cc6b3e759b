// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package session

var exitFlushEnabled bool
var exitFlushTarget *Session

// EnableExitFlush makes s the session that RunExitFlushNow flushes
// if it is still buffering. It is opt-in and applies to at most one
// session at a time; a later call replaces the earlier target.
//
// Nothing is hooked into process exit: the flush happens only when
// RunExitFlushNow is called, for example from a defer in main or from
// the program's own signal/exit handling.
func EnableExitFlush(s *Session) {
	exitFlushTarget = s
	exitFlushEnabled = true
}

// DisableExitFlush cancels a prior EnableExitFlush.
func DisableExitFlush() {
	exitFlushEnabled = false
	exitFlushTarget = nil
}

// RunExitFlushNow flushes the registered exit-flush session, if any
// and if it is still buffering. It is safe to call unconditionally
// from a defer in main or from a signal handler.
func RunExitFlushNow() {
	if !exitFlushEnabled || exitFlushTarget == nil {
		return
	}
	if exitFlushTarget.State() == Buffering {
		if err := exitFlushTarget.Flush(); err != nil {
			exitFlushTarget.logger.Printf("cprintf: exit-flush failed: %v", err)
		}
	}
}
