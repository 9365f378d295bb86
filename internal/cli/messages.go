package cli

import (
	"errors"

	"github.com/josselin06/Borobo-stage-2025/internal/common"
)

// User-facing messages, shown on the console. The backend and its operators
// speak French; logs stay in English.
const (
	msgBadCredentials = "Nom d'utilisateur ou mot de passe incorrect."
	msgServerError    = "Erreur de connexion au serveur."
	msgSessionExpired = "Session expirée. Veuillez vous reconnecter."
	msgLoadError      = "Erreur lors du chargement des données."
	msgDownloadError  = "Échec du téléchargement."
	msgUnknownError   = "Erreur inconnue"
)

// userMessage maps an error from the data layer to the message shown to the
// user. Validation and backend-rejection errors carry their own text and are
// surfaced verbatim.
func userMessage(err error) string {
	var rejection *common.BackendRejectionError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrInvalidCredentials):
		return msgBadCredentials
	case errors.Is(err, common.ErrSessionExpired):
		return msgSessionExpired
	case errors.Is(err, common.ErrDownload):
		return msgDownloadError
	case errors.Is(err, common.ErrValidation):
		return validationText(err)
	case errors.As(err, &rejection):
		return rejection.Message
	case errors.Is(err, common.ErrServer):
		return msgServerError
	case errors.Is(err, common.ErrFetch):
		return msgLoadError
	default:
		return msgUnknownError
	}
}

// validationText strips the sentinel prefix so only the policy message
// remains.
func validationText(err error) string {
	msg := err.Error()
	prefix := common.ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
