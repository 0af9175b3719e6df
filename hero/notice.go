package hero

// NoticeKind classifies a transient editor notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a short message surfaced to the editor after an action.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Messages shown for editor actions.
const (
	MsgUploading      = "Uploading..."
	MsgImageUpdated   = "Image updated!"
	MsgUploadFailed   = "Upload failed"
	MsgSaved          = "Website Updated Successfully!"
	MsgSaveFailed     = "Failed to save"
	MsgSaveInProgress = "A save is already in progress"
	MsgUnavailable    = "Live content could not be loaded. Reload before saving."
	MsgReloaded       = "Content reloaded"
	MsgReloadFailed   = "Content is still unavailable"
	MsgEditRejected   = "Edit rejected"
)

func success(msg string) Notice { return Notice{Kind: NoticeSuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Kind: NoticeError, Message: msg} }

// Rejected reports an edit the draft refused, naming the cause.
func Rejected(err error) Notice {
	if err == nil {
		return failure(MsgEditRejected)
	}
	return failure(MsgEditRejected + ": " + err.Error())
}
