// Package all pulls in every command package so their init registrations run.
package all

import (
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/admin"
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/bounty"
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/players"
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/reminders"
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/sftp"
	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/utility"
)
