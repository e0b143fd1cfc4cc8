package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerUsername     string
	registerEmail        string
	registerPassword     string
	registerSecurityWord string

	resetSecurityWord    string
	resetNewPassword     string
	resetConfirmPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Register(registerUsername, registerEmail, registerPassword, registerSecurityWord)
		if err != nil {
			return err
		}
		token = resp.Token
		if err := saveCLIConfig(); err != nil {
			fmt.Printf("Warning: could not save token: %v\n", err)
		}
		fmt.Printf("Registered and logged in as %s\n", resp.User.Username)
		fmt.Println("Your list starts with the default categories; remember your security word, it is the only way to reset your password.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email-or-username> <password>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Login(args[0], args[1])
		if err != nil {
			return err
		}
		token = resp.Token
		if err := saveCLIConfig(); err != nil {
			fmt.Printf("Warning: could not save token: %v\n", err)
		}
		fmt.Printf("Logged in as %s\n", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token = ""
		if err := saveCLIConfig(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		user, err := newClient().Me()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		if user.LastLogin != nil {
			fmt.Printf("last login: %s\n", user.LastLogin.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email-or-username>",
	Short: "Reset your password using your security word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newClient().ResetPassword(args[0], resetSecurityWord, resetNewPassword, resetConfirmPassword)
		if err != nil {
			return err
		}
		fmt.Println("Password reset successfully")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "username (3-30 characters, letters/digits/underscore)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (at least 6 characters)")
	registerCmd.Flags().StringVar(&registerSecurityWord, "security-word", "", "recovery word for password resets")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("security-word")

	resetPasswordCmd.Flags().StringVar(&resetSecurityWord, "security-word", "", "recovery word chosen at registration")
	resetPasswordCmd.Flags().StringVar(&resetNewPassword, "new-password", "", "new password")
	resetPasswordCmd.Flags().StringVar(&resetConfirmPassword, "confirm-password", "", "new password, again")
	resetPasswordCmd.MarkFlagRequired("security-word")
	resetPasswordCmd.MarkFlagRequired("new-password")
	resetPasswordCmd.MarkFlagRequired("confirm-password")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, resetPasswordCmd)
}
