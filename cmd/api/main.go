package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oficina",
	Short: "API da oficina de máquinas (clientes, máquinas e peças)",
	Long: `API da oficina de máquinas.

Sem subcomando sobe o servidor HTTP (mesmo que "oficina serve").
A configuração vem das variáveis de ambiente ou de um .env.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sobe o servidor HTTP",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Grava os dados de demonstração nas coleções vazias",
	RunE:  runSeed,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Envia um snapshot das coleções para o S3",
	RunE:  runBackup,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
