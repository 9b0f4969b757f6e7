package controllers

// Every user-facing notice, in one place. msgInvalidCredentials is shown for
// both an unknown email and a wrong password so the login form never reveals
// which accounts exist.
const (
	msgInternal = "erro interno"

	msgInvalidCredentials = "E-mail ou senha incorretos."
	msgNotConfirmed       = "Sua conta ainda não foi confirmada. Verifique seu e-mail."

	msgRegistered = "Cadastro realizado! Enviamos um link de confirmação para o seu e-mail."
	msgEmailTaken = "Este e-mail já está cadastrado."

	msgActivated         = "Conta confirmada! Você já pode entrar."
	msgActivationExpired = "Este link de confirmação expirou. Cadastre-se novamente."
	msgActivationInvalid = "Link de confirmação inválido."

	msgResetRequested = "Se o e-mail estiver cadastrado, você receberá um link de recuperação."
	msgResetExpired   = "Este link de recuperação expirou. Solicite um novo."
	msgResetInvalid   = "Link de recuperação inválido."
	msgResetDone      = "Senha alterada! Faça login com a nova senha."
	msgPasswordsDiff  = "As senhas não conferem."

	msgProfileUpdated = "Perfil atualizado."

	msgProductCreated = "Produto cadastrado."
	msgProductUpdated = "Produto atualizado."
	msgProductDeleted = "Produto excluído."

	msgUploadFailed = "Não foi possível enviar a imagem. Tente novamente."
)
