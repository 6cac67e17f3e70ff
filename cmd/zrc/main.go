package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/app"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/config"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/db"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "zrc",
	Short: "Zaakregistratie CLI",
	Long: `zrc registreert zaken en bewaakt hun levensloop tot en met archivering.
A zaak opens with a startdatum, collects statussen, eigenschappen and linked
documents, gets exactly one resultaat, and closes when an eindstatus arrives.
On closing the archiefactiedatum is derived from the resultaattype's
brondatum archiefprocedure. The event log feeds notificaties to subscribers;
view it with 'zrc log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ZRC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().Bool("force", false, "force operation")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("force", rootCmd.PersistentFlags().Lookup("force"))
}

func registerCommands() {
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(zaakCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(resultaatCmd())
	rootCmd.AddCommand(eigenschapCmd())
	rootCmd.AddCommand(documentCmd())
	rootCmd.AddCommand(objectCmd())
	rootCmd.AddCommand(besluitCmd())
	rootCmd.AddCommand(klantcontactCmd())
	rootCmd.AddCommand(applicatieCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage zrc.yml"}
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configCheckCmd())
	cfg.AddCommand(configShowCmd())
	return cfg
}

func configInitCmd() *cobra.Command {
	var rsin string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default zrc.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(rsin)), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&rsin, "rsin", "000000000", "RSIN of the bronorganisatie")
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate zrc.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			fmt.Printf("config ok: %d notificatie hooks\n", len(cfg.Notificaties.Hooks))
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSON(cfg)
		},
	}
}

func zaakCmd() *cobra.Command {
	zaak := &cobra.Command{Use: "zaak", Short: "Manage zaken"}
	zaak.AddCommand(zaakCreateCmd())
	zaak.AddCommand(zaakShowCmd())
	zaak.AddCommand(zaakListCmd())
	zaak.AddCommand(zaakUpdateCmd())
	zaak.AddCommand(zaakDeleteCmd())
	return zaak
}

func zaakCreateCmd() *cobra.Command {
	var opts engine.ZaakCreateOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create zaak",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if opts.Bronorganisatie == "" && e.Config != nil {
					opts.Bronorganisatie = e.Config.Organisatie.RSIN
				}
				if opts.Startdatum == "" {
					opts.Startdatum = time.Now().UTC().Format("2006-01-02")
				}
				opts.ActorID = viper.GetString("actor-id")
				zaak, err := e.CreateZaak(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(zaak)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Bronorganisatie, "bronorganisatie", "", "RSIN of the owning organisation (defaults to config)")
	cmd.Flags().StringVar(&opts.Identificatie, "identificatie", "", "identification (generated when empty)")
	cmd.Flags().StringVar(&opts.Zaaktype, "zaaktype", "", "zaaktype URL")
	cmd.Flags().StringVar(&opts.Omschrijving, "omschrijving", "", "short description")
	cmd.Flags().StringVar(&opts.Startdatum, "startdatum", "", "start date (defaults to today)")
	cmd.Flags().StringVar(&opts.EinddatumGepland, "einddatum-gepland", "", "planned end date")
	cmd.Flags().StringVar(&opts.UiterlijkeEinddatum, "uiterlijke-einddatum", "", "hard deadline")
	cmd.Flags().StringVar(&opts.Hoofdzaak, "hoofdzaak", "", "hoofdzaak id")
	cmd.Flags().StringVar(&opts.Betalingsindicatie, "betalingsindicatie", "", "payment indication")
	_ = cmd.MarkFlagRequired("zaaktype")
	return cmd
}

func zaakShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <zaak-id>",
		Short: "Show zaak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zaak, err := e.Repo.GetZaak(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(zaak)
			})
		},
	}
	return cmd
}

func zaakListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List zaken",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zaken, err := e.Repo.ListZaken(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(zaken)
				}
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"ID", "Identificatie", "Startdatum", "Einddatum", "Archiefstatus", "Archiefactiedatum"})
				for _, z := range zaken {
					t.AppendRow(table.Row{z.ID, z.Identificatie, z.Startdatum, strVal(z.Einddatum), z.Archiefstatus, strVal(z.Archiefactiedatum)})
				}
				t.Render()
				return nil
			})
		},
	}
	return cmd
}

func zaakUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <zaak-id>",
		Short: "Update zaak fields; pass an empty value to clear a nullable field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.ZaakUpdateOptions{
				ID:      args[0],
				ActorID: viper.GetString("actor-id"),
				Force:   viper.GetBool("force"),
			}
			opts.Omschrijving = changedFlag(cmd, "omschrijving")
			opts.Startdatum = changedFlag(cmd, "startdatum")
			opts.EinddatumGepland = changedFlag(cmd, "einddatum-gepland")
			opts.UiterlijkeEinddatum = changedFlag(cmd, "uiterlijke-einddatum")
			opts.Hoofdzaak = changedFlag(cmd, "hoofdzaak")
			opts.Betalingsindicatie = changedFlag(cmd, "betalingsindicatie")
			opts.LaatsteBetaaldatum = changedFlag(cmd, "laatste-betaaldatum")
			opts.Archiefnominatie = changedFlag(cmd, "archiefnominatie")
			opts.Archiefstatus = changedFlag(cmd, "archiefstatus")
			opts.Archiefactiedatum = changedFlag(cmd, "archiefactiedatum")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zaak, err := e.UpdateZaak(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(zaak)
			})
		},
	}
	for _, name := range []string{
		"omschrijving", "startdatum", "einddatum-gepland", "uiterlijke-einddatum",
		"hoofdzaak", "betalingsindicatie", "laatste-betaaldatum",
		"archiefnominatie", "archiefstatus", "archiefactiedatum",
	} {
		cmd.Flags().String(name, "", name)
	}
	return cmd
}

func zaakDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <zaak-id>",
		Short: "Delete zaak with all dependent records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteZaak(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func statusCmd() *cobra.Command {
	status := &cobra.Command{Use: "status", Short: "Manage statussen"}
	status.AddCommand(statusAddCmd())
	status.AddCommand(statusListCmd())
	return status
}

func statusAddCmd() *cobra.Command {
	var opts engine.StatusAddOptions
	cmd := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Add status; an eindstatus closes the zaak, --force reopens a closed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			opts.Elevated = true
			opts.Reopen = viper.GetBool("force")
			if opts.DatumStatusGezet == "" {
				opts.DatumStatusGezet = time.Now().UTC().Format(time.RFC3339)
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				status, err := e.AddStatus(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(status)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Statustype, "statustype", "", "statustype URL")
	cmd.Flags().StringVar(&opts.DatumStatusGezet, "datum", "", "datum_status_gezet (defaults to now)")
	cmd.Flags().StringVar(&opts.Toelichting, "toelichting", "", "explanation")
	_ = cmd.MarkFlagRequired("statustype")
	return cmd
}

func statusListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <zaak-id>",
		Short: "List statussen of a zaak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				statussen, err := e.Repo.ListStatussen(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(statussen)
				}
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"ID", "Statustype", "Datum", "Toelichting"})
				for _, s := range statussen {
					t.AppendRow(table.Row{s.ID, s.Statustype, s.DatumStatusGezet, s.Toelichting})
				}
				t.Render()
				return nil
			})
		},
	}
	return cmd
}

func resultaatCmd() *cobra.Command {
	res := &cobra.Command{Use: "resultaat", Short: "Manage resultaten"}
	res.AddCommand(resultaatSetCmd())
	res.AddCommand(resultaatShowCmd())
	return res
}

func resultaatSetCmd() *cobra.Command {
	var opts engine.ResultaatSetOptions
	cmd := &cobra.Command{
		Use:   "set <zaak-id>",
		Short: "Set resultaat, replacing any earlier one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.SetResultaat(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Resultaattype, "resultaattype", "", "resultaattype URL")
	cmd.Flags().StringVar(&opts.Toelichting, "toelichting", "", "explanation")
	_ = cmd.MarkFlagRequired("resultaattype")
	return cmd
}

func resultaatShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <zaak-id>",
		Short: "Show the resultaat of a zaak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				res, err := e.Repo.GetResultaatByZaak(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	return cmd
}

func eigenschapCmd() *cobra.Command {
	eig := &cobra.Command{Use: "eigenschap", Short: "Manage zaakeigenschappen"}
	eig.AddCommand(eigenschapAddCmd())
	eig.AddCommand(eigenschapListCmd())
	return eig
}

func eigenschapAddCmd() *cobra.Command {
	var opts engine.ZaakEigenschapAddOptions
	cmd := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Add zaakeigenschap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				eig, err := e.AddZaakEigenschap(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(eig)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Eigenschap, "eigenschap", "", "eigenschap URL")
	cmd.Flags().StringVar(&opts.Naam, "naam", "", "name")
	cmd.Flags().StringVar(&opts.Waarde, "waarde", "", "value")
	_ = cmd.MarkFlagRequired("naam")
	return cmd
}

func eigenschapListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <zaak-id>",
		Short: "List zaakeigenschappen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				eigs, err := e.Repo.ListZaakEigenschappen(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(eigs)
			})
		},
	}
	return cmd
}

func documentCmd() *cobra.Command {
	doc := &cobra.Command{Use: "document", Short: "Manage zaakinformatieobjecten"}
	var opts engine.ZaakInformatieObjectAddOptions
	add := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Link informatieobject to zaak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zio, err := e.AddZaakInformatieObject(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(zio)
			})
		},
	}
	add.Flags().StringVar(&opts.InformatieObject, "informatieobject", "", "informatieobject URL")
	add.Flags().StringVar(&opts.Titel, "titel", "", "title")
	add.Flags().StringVar(&opts.Beschrijving, "beschrijving", "", "description")
	_ = add.MarkFlagRequired("informatieobject")
	doc.AddCommand(add)
	return doc
}

func objectCmd() *cobra.Command {
	obj := &cobra.Command{Use: "object", Short: "Manage zaakobjecten"}
	var opts engine.ZaakObjectAddOptions
	add := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Link object to zaak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zo, err := e.AddZaakObject(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(zo)
			})
		},
	}
	add.Flags().StringVar(&opts.Object, "object", "", "object URL")
	add.Flags().StringVar(&opts.ObjectType, "object-type", "", "object type")
	add.Flags().StringVar(&opts.RelatieOmschrijving, "relatieomschrijving", "", "relation description")
	_ = add.MarkFlagRequired("object")
	_ = add.MarkFlagRequired("object-type")
	obj.AddCommand(add)
	return obj
}

func besluitCmd() *cobra.Command {
	bes := &cobra.Command{Use: "besluit", Short: "Manage besluit links"}
	var besluitURL string
	add := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Mirror besluit link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				zb, err := e.AddZaakBesluit(ctx, args[0], besluitURL, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSON(zb)
			})
		},
	}
	add.Flags().StringVar(&besluitURL, "besluit", "", "besluit URL")
	_ = add.MarkFlagRequired("besluit")
	remove := &cobra.Command{
		Use:   "remove <zaakbesluit-id>",
		Short: "Remove besluit link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.RemoveZaakBesluit(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	bes.AddCommand(add)
	bes.AddCommand(remove)
	return bes
}

func klantcontactCmd() *cobra.Command {
	kc := &cobra.Command{Use: "klantcontact", Short: "Manage klantcontacten"}
	var opts engine.KlantContactAddOptions
	add := &cobra.Command{
		Use:   "add <zaak-id>",
		Short: "Register klantcontact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ZaakID = args[0]
			opts.ActorID = viper.GetString("actor-id")
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				contact, err := e.AddKlantContact(ctx, opts)
				if err != nil {
					return err
				}
				return printJSON(contact)
			})
		},
	}
	add.Flags().StringVar(&opts.Datumtijd, "datumtijd", "", "contact timestamp (defaults to now)")
	add.Flags().StringVar(&opts.Kanaal, "kanaal", "", "contact channel")
	add.Flags().StringVar(&opts.Onderwerp, "onderwerp", "", "subject")
	add.Flags().StringVar(&opts.Toelichting, "toelichting", "", "explanation")
	list := &cobra.Command{
		Use:   "list <zaak-id>",
		Short: "List klantcontacten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				contacts, err := e.Repo.ListKlantContacten(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(contacts)
			})
		},
	}
	kc.AddCommand(add)
	kc.AddCommand(list)
	return kc
}

func applicatieCmd() *cobra.Command {
	appCmd := &cobra.Command{Use: "applicatie", Short: "Manage API consumers"}
	var label, secret string
	var scopes []string
	add := &cobra.Command{
		Use:   "add <client-id>",
		Short: "Register applicatie with scopes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret required")
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				return r.InsertApplicatie(ctx, nil, domain.Applicatie{
					ClientID:   args[0],
					Label:      label,
					SecretHash: repo.HashSecret(secret),
					Scopes:     scopes,
				})
			})
		},
	}
	add.Flags().StringVar(&label, "label", "", "display label")
	add.Flags().StringVar(&secret, "secret", "", "client secret")
	add.Flags().StringSliceVar(&scopes, "scope", nil, "granted scope (repeatable)")
	list := &cobra.Command{
		Use:   "list",
		Short: "List applicaties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				apps, err := r.ListApplicaties(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(apps)
				}
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"Client ID", "Label", "Scopes"})
				for _, a := range apps {
					t.AppendRow(table.Row{a.ClientID, a.Label, strings.Join(a.Scopes, ",")})
				}
				t.Render()
				return nil
			})
		},
	}
	appCmd.AddCommand(add)
	appCmd.AddCommand(list)
	return appCmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
	}
	var limit int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				evts, err := r.TailEvents(ctx, limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(evts)
				}
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"ID", "TS", "Type", "Zaak", "Actor"})
				for _, evt := range evts {
					t.AppendRow(table.Row{evt.ID, evt.TS, evt.Type, evt.ZaakID, evt.ActorID})
				}
				t.Render()
				return nil
			})
		},
	}
	tail.Flags().IntVar(&limit, "limit", 20, "number of events")
	log.AddCommand(tail)
	return log
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			eng, conn, _, err := app.Open(workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			authCfg := server.AuthConfig{JWTSecret: os.Getenv("ZRC_JWT_SECRET")}
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("ZRC_JWT_SECRET is required for bearer auth")
			}
			handler, err := server.New(server.Config{Engine: eng, BasePath: basePath, Auth: authCfg})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Zaken API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v1", "API base path")
	return cmd
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	eng, conn, _, err := app.Open(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, eng)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	eng, conn, _, err := app.Open(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, eng.Repo)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// changedFlag returns nil when the flag was not set, so updates distinguish
// "leave alone" from "clear".
func changedFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
