package config

import (
	"context"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	qrcode "github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var meowWhatsapp *whatsmeow.Client

func getDBMS() (*string, error) {
	dbms := os.Getenv("DBMS")
	if dbms == "" {
		return nil, fmt.Errorf("DBMS is missing, value: %s", dbms)
	}
	return &dbms, nil
}

func getDBUser() (*string, error) {
	v := os.Getenv("DB_USER")
	if v == "" {
		return nil, fmt.Errorf("Database User is missing, value: %s", v)
	}
	return &v, nil
}

func getDBPassword() (*string, error) {
	v := os.Getenv("DB_PASSWORD")
	if v == "" {
		return nil, fmt.Errorf("Database Password is missing, value: %s", v)
	}
	return &v, nil
}

func getDBName() (*string, error) {
	v := os.Getenv("DB_DATABASE")
	if v == "" {
		return nil, fmt.Errorf("DB Name is missing, value: %s", v)
	}
	return &v, nil
}

// InitMeow connects the WhatsApp client the dispatcher sends through. On a
// fresh session the login QR code is printed and written to qrcode.png for
// the admin to scan.
func InitMeow() (*whatsmeow.Client, error) {
	dbms, err := getDBMS()
	if err != nil {
		return nil, err
	}

	user, err := getDBUser()
	if err != nil {
		return nil, err
	}

	pass, err := getDBPassword()
	if err != nil {
		return nil, err
	}

	dbname, err := getDBName()
	if err != nil {
		return nil, err
	}

	meowAddress := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable", *user, *pass, *dbname)

	container, err := sqlstore.New(*dbms, meowAddress, nil)
	if err != nil {
		return nil, err
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		return nil, err
	}
	client := whatsmeow.NewClient(deviceStore, nil)
	meowWhatsapp = client

	if meowWhatsapp.Store.ID == nil {
		qrChan, _ := meowWhatsapp.GetQRChannel(context.Background())
		err = meowWhatsapp.Connect()
		if err != nil {
			return nil, err
		}
		// No stored session: show the QR code to log in.
		for evt := range qrChan {
			if evt.Event == "code" {
				fmt.Println("")
				fmt.Println("Need admin to scan the qr code for the server to run properly!")
				fmt.Println("==============   QR CODE   ==============")
				fmt.Println(evt.Code)

				if err := generateQRCode(evt.Code, "qrcode.png"); err != nil {
					return nil, err
				}

				fmt.Println("")
			} else {
				fmt.Println("Login event:", evt.Event)
			}
		}
	} else {
		err = meowWhatsapp.Connect()
		if err != nil {
			return nil, err
		}
		fmt.Println("Login success")
	}

	return meowWhatsapp, nil
}

func generateQRCode(data, filePath string) error {
	if err := qrcode.WriteFile(data, qrcode.Medium, 256, filePath); err != nil {
		return fmt.Errorf("failed to generate QR code: %v", err)
	}
	return nil
}
