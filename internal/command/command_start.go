package command

type StartCommand struct{}

func (c *StartCommand) Name() string        { return "start" }
func (c *StartCommand) Description() string { return "Show everything Marvin can do" }
func (c *StartCommand) Aliases() []string   { return []string{} }
func (c *StartCommand) RequireAdmin() bool  { return false }

func (c *StartCommand) Run(ctx *Context) error {
	return ctx.Reply(`*Don't Panic! I have a Towel!*

*__Triggers__*
*Add a new trigger:*
/add triggerWord -> triggerResponse

*Delete a trigger:*
/del triggerWord

*List triggers:*
/list
_or_
/listdetail
_The latter will PM you a full list of all triggers and their responses. Note you must PM Marvin first and send a /start command to him._

*__Harry Potter__*
*Add someone to their HP House:*
/sortinghat @username <houseName>

*List House Members:*
/sortinghat
_or_
/sortinghat @username

*Give/Remove House Point:*
Reply to a message with + or - (❤️ 😍 👍 / 😡 👎 work too)

*Bulk Give/Remove House Points (Admin Only):*
/points @username <pointsTotal>

*Show current House and Champion Totals:*
/points totals

*__Roll Dice__*
/roll
_or_
/roll 2d8
_The first number is how many dice to roll, the second how many sides each has._

*__Group General__*
/activity
_Shows users not active in the last two days_

/activity full
_Shows all users last activity_`)
}

func init() {
	Register(&StartCommand{})
}
