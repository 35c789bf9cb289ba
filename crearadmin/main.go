// Herramienta de línea de comandos para promover una cuenta a administrador.

package main

import (
	"fmt"
	"log"
	"os"

	"bookexchange/dto"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var email string

	cmd := &cobra.Command{
		Use:   "crearadmin",
		Short: "Promueve un usuario existente a administrador",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("se requiere --email")
			}

			if err := godotenv.Load(); err != nil {
				log.Println("Sin archivo .env, se usan las variables de entorno del sistema")
			}
			dto.ConectarBaseDatos()
			defer dto.DB.Close()

			var existe int
			if err := dto.DB.QueryRow(
				"SELECT COUNT(*) FROM usuario WHERE email = ?", email).Scan(&existe); err != nil {
				return fmt.Errorf("consultar usuario: %w", err)
			}
			if existe == 0 {
				return fmt.Errorf("no existe un usuario con email %s", email)
			}

			if _, err := dto.DB.Exec(
				"UPDATE usuario SET tipoUsuario = 'admin' WHERE email = ?", email); err != nil {
				return fmt.Errorf("actualizar usuario: %w", err)
			}

			fmt.Printf("Usuario %s promovido a administrador\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta a promover")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
