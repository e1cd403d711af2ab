package core

// Redirect contract param names. The backend navigates the authorization
// surface back to {callback}?action=success&id=...&email=...&name=...&photo=...
// or {callback}?action=failed&error=....
const (
	ParamAction = "action"
	ParamID     = "id"
	ParamEmail  = "email"
	ParamName   = "name"
	ParamPhoto  = "photo"
	ParamError  = "error"

	ActionSuccess = "success"
	ActionFailed  = "failed"
)

// ResultFromParams normalizes a decoded redirect param mapping into the
// canonical Result. Params are trusted only when unambiguously well-formed:
// success requires action=success plus non-empty id and email. Every other
// shape, including success-marked params missing either field, is a failure
// with no classification code — we cannot know why a redirect went wrong,
// only that it did.
func ResultFromParams(params map[string]string) Result {
	if params[ParamAction] == ActionSuccess && params[ParamID] != "" && params[ParamEmail] != "" {
		return Succeed(User{
			ID:    params[ParamID],
			Email: params[ParamEmail],
			Name:  params[ParamName],
			Photo: params[ParamPhoto],
		})
	}
	return failRaw(params[ParamError])
}
